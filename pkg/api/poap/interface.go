package poap

import "context"

type IEndpoint interface {
	// GetAccessToken returns a valid bearer token for the vendor API,
	// refreshing the cached one if it is absent or about to expire.
	GetAccessToken(ctx context.Context) (string, error)

	// GetQRCodes returns the current pool snapshot of an event. The claimed
	// flag of every entry is a point-in-time value; callers must treat it as
	// potentially stale in both directions.
	GetQRCodes(ctx context.Context, eventID int64, secretCode string) ([]QRCode, error)

	// CheckQRCodeStatus returns the full claim record of one code.
	CheckQRCodeStatus(ctx context.Context, qrHash string) (ClaimQR, error)

	// ClaimQR redeems a code for the given address. Fails with an
	// AlreadyClaimed error if anyone redeemed the code first.
	ClaimQR(ctx context.Context, qrHash, address string) (ClaimQR, error)

	// RequestMoreCodes asks the vendor to provision additional pool capacity
	// for the event. Provisioning is asynchronous on the vendor side.
	RequestMoreCodes(ctx context.Context, eventID int64) error

	GetEvent(ctx context.Context, eventID int64) (Event, error)
	GetToken(ctx context.Context, tokenID int64) (Token, error)

	// ScanAddressForEvent looks up the token the address holds for an event.
	// Returns (nil, nil) if the vendor has no record.
	ScanAddressForEvent(ctx context.Context, address string, eventID int64) (*Token, error)
}
