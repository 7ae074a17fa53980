package poap

// QRCode is one entry of an event's mint-code pool as returned by the pool
// listing endpoint. The claimed flag is a snapshot and may already be stale
// when it arrives.
type QRCode struct {
	QRHash  string `mapstructure:"qr_hash"`
	Claimed bool   `mapstructure:"claimed"`
}

// ClaimQR is the full claim record behind one QR hash. The vendor nests the
// event summary once the code has been claimed.
type ClaimQR struct {
	ID          int64         `mapstructure:"id"`
	QRHash      string        `mapstructure:"qr_hash"`
	TxHash      string        `mapstructure:"tx_hash"`
	EventID     int64         `mapstructure:"event_id"`
	Beneficiary string        `mapstructure:"beneficiary"`
	UserInput   string        `mapstructure:"user_input"`
	Claimed     bool          `mapstructure:"claimed"`
	ClaimedDate string        `mapstructure:"claimed_date"`
	CreatedDate string        `mapstructure:"created_date"`
	IsActive    bool          `mapstructure:"is_active"`
	Event       *EventSummary `mapstructure:"event"`
}

type EventSummary struct {
	ID          int64  `mapstructure:"id"`
	FancyID     string `mapstructure:"fancy_id"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	ImageURL    string `mapstructure:"image_url"`
	Country     string `mapstructure:"country"`
	City        string `mapstructure:"city"`
	Year        int    `mapstructure:"year"`
	StartDate   string `mapstructure:"start_date"`
	EndDate     string `mapstructure:"end_date"`
}

type Event struct {
	ID           int64  `mapstructure:"id"`
	FancyID      string `mapstructure:"fancy_id"`
	Name         string `mapstructure:"name"`
	Description  string `mapstructure:"description"`
	LocationType string `mapstructure:"location_type"`
	City         string `mapstructure:"city"`
	Country      string `mapstructure:"country"`
	EventURL     string `mapstructure:"event_url"`
	ImageURL     string `mapstructure:"image_url"`
	AnimationURL string `mapstructure:"animation_url"`
	Year         int    `mapstructure:"year"`
	StartDate    string `mapstructure:"start_date"`
	EndDate      string `mapstructure:"end_date"`
	ExpiryDate   string `mapstructure:"expiry_date"`
	CreatedDate  string `mapstructure:"created_date"`
	Timezone     string `mapstructure:"timezone"`
	VirtualEvent bool   `mapstructure:"virtual_event"`
	PrivateEvent bool   `mapstructure:"private_event"`
}

type Token struct {
	ID      int64         `mapstructure:"id"`
	Owner   string        `mapstructure:"owner"`
	Created string        `mapstructure:"created"`
	Event   *EventSummary `mapstructure:"event"`
}
