package testutil

import (
	"context"
	"errors"

	"github.com/quizdrop/backend/pkg/api/poap"
)

type MockPoapEndpoint struct {
	GetAccessTokenFunc      func(context.Context) (string, error)
	GetQRCodesFunc          func(context.Context, int64, string) ([]poap.QRCode, error)
	CheckQRCodeStatusFunc   func(context.Context, string) (poap.ClaimQR, error)
	ClaimQRFunc             func(context.Context, string, string) (poap.ClaimQR, error)
	RequestMoreCodesFunc    func(context.Context, int64) error
	GetEventFunc            func(context.Context, int64) (poap.Event, error)
	GetTokenFunc            func(context.Context, int64) (poap.Token, error)
	ScanAddressForEventFunc func(context.Context, string, int64) (*poap.Token, error)
}

func (e *MockPoapEndpoint) GetAccessToken(ctx context.Context) (string, error) {
	if e.GetAccessTokenFunc != nil {
		return e.GetAccessTokenFunc(ctx)
	}

	return "mock-access-token", nil
}

func (e *MockPoapEndpoint) GetQRCodes(
	ctx context.Context, eventID int64, secretCode string,
) ([]poap.QRCode, error) {
	if e.GetQRCodesFunc != nil {
		return e.GetQRCodesFunc(ctx, eventID, secretCode)
	}

	return nil, errors.New("not implemented")
}

func (e *MockPoapEndpoint) CheckQRCodeStatus(
	ctx context.Context, qrHash string,
) (poap.ClaimQR, error) {
	if e.CheckQRCodeStatusFunc != nil {
		return e.CheckQRCodeStatusFunc(ctx, qrHash)
	}

	return poap.ClaimQR{}, errors.New("not implemented")
}

func (e *MockPoapEndpoint) ClaimQR(
	ctx context.Context, qrHash, address string,
) (poap.ClaimQR, error) {
	if e.ClaimQRFunc != nil {
		return e.ClaimQRFunc(ctx, qrHash, address)
	}

	return poap.ClaimQR{}, errors.New("not implemented")
}

func (e *MockPoapEndpoint) RequestMoreCodes(ctx context.Context, eventID int64) error {
	if e.RequestMoreCodesFunc != nil {
		return e.RequestMoreCodesFunc(ctx, eventID)
	}

	return errors.New("not implemented")
}

func (e *MockPoapEndpoint) GetEvent(ctx context.Context, eventID int64) (poap.Event, error) {
	if e.GetEventFunc != nil {
		return e.GetEventFunc(ctx, eventID)
	}

	return poap.Event{}, errors.New("not implemented")
}

func (e *MockPoapEndpoint) GetToken(ctx context.Context, tokenID int64) (poap.Token, error) {
	if e.GetTokenFunc != nil {
		return e.GetTokenFunc(ctx, tokenID)
	}

	return poap.Token{}, errors.New("not implemented")
}

func (e *MockPoapEndpoint) ScanAddressForEvent(
	ctx context.Context, address string, eventID int64,
) (*poap.Token, error) {
	if e.ScanAddressForEventFunc != nil {
		return e.ScanAddressForEventFunc(ctx, address, eventID)
	}

	return nil, errors.New("not implemented")
}
