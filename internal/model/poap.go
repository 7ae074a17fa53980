package model

type EventSummary struct {
	ID          int64  `json:"id"`
	FancyID     string `json:"fancy_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Year        int    `json:"year"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type MintPoapRequest struct {
	PersonalityType string `json:"personality_type"`
	Address         string `json:"address"`
}

type MintPoapResponse struct {
	Message      string        `json:"message"`
	TokenID      int64         `json:"token_id"`
	EventID      int64         `json:"event_id"`
	ClaimedDate  string        `json:"claimed_date"`
	QRHash       string        `json:"qr_hash,omitempty"`
	Event        *EventSummary `json:"event"`
	AlreadyOwned bool          `json:"already_owned"`
}

type GetEventRequest struct {
	EventID int64 `json:"event_id"`
}

type GetEventResponse struct {
	ID           int64  `json:"id"`
	FancyID      string `json:"fancy_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LocationType string `json:"location_type"`
	City         string `json:"city"`
	Country      string `json:"country"`
	EventURL     string `json:"event_url"`
	ImageURL     string `json:"image_url"`
	AnimationURL string `json:"animation_url"`
	Year         int    `json:"year"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	ExpiryDate   string `json:"expiry_date"`
	Timezone     string `json:"timezone"`
	VirtualEvent bool   `json:"virtual_event"`
}

type GetTokenRequest struct {
	TokenID int64 `json:"token_id"`
}

type GetTokenResponse struct {
	ID      int64         `json:"id"`
	Owner   string        `json:"owner"`
	Created string        `json:"created"`
	Event   *EventSummary `json:"event"`
}
