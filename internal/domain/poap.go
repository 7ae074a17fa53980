package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/internal/common"
	"github.com/quizdrop/backend/internal/model"
	"github.com/quizdrop/backend/pkg/api/poap"
	"github.com/quizdrop/backend/pkg/errorx"
	"github.com/quizdrop/backend/pkg/xcontext"
)

type PoapDomain interface {
	Mint(context.Context, *model.MintPoapRequest) (*model.MintPoapResponse, error)
	GetEvent(context.Context, *model.GetEventRequest) (*model.GetEventResponse, error)
	GetToken(context.Context, *model.GetTokenRequest) (*model.GetTokenResponse, error)
}

type poapDomain struct {
	poapEndpoint poap.IEndpoint
	cfg          config.PoapConfigs
}

func NewPoapDomain(poapEndpoint poap.IEndpoint, cfg config.PoapConfigs) *poapDomain {
	return &poapDomain{
		poapEndpoint: poapEndpoint,
		cfg:          cfg,
	}
}

func (d *poapDomain) Mint(
	ctx context.Context, req *model.MintPoapRequest,
) (*model.MintPoapResponse, error) {
	if !isWalletAddress(req.Address) {
		return nil, errorx.New(errorx.BadRequest, "Invalid wallet address format")
	}

	personality, err := common.ParsePersonality(req.PersonalityType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid personality type")
	}

	event, err := common.PersonalityEvent(d.cfg, personality)
	if err != nil {
		return nil, err
	}

	resp, err := d.mint(ctx, event, req.Address)
	if err == nil {
		return resp, nil
	}

	// The vendor enforces one claim per address per event. When the failure
	// says the address already holds the token, surface the existing one as
	// a success instead of an error. Any failure inside the recovery itself
	// falls back to the original mint error.
	if poap.IsAlreadyMintedClass(err) {
		if recovered := d.recoverExistingToken(ctx, event.EventID, req.Address); recovered != nil {
			return recovered, nil
		}
	}

	return nil, d.userError(ctx, err)
}

func (d *poapDomain) mint(
	ctx context.Context, event config.EventConfigs, address string,
) (*model.MintPoapResponse, error) {
	qrHash, err := d.findAndClaim(ctx, event, address)
	if err != nil {
		return nil, err
	}

	// Re-fetch the winning code to surface the nested token and event
	// metadata of the completed claim.
	claim, err := d.poapEndpoint.CheckQRCodeStatus(ctx, qrHash)
	if err != nil {
		return nil, err
	}

	claimedDate := claim.ClaimedDate
	if claimedDate == "" {
		claimedDate = claim.CreatedDate
	}

	resp := &model.MintPoapResponse{
		Message:     "POAP minted successfully!",
		TokenID:     claim.ID,
		EventID:     claim.EventID,
		ClaimedDate: claimedDate,
		QRHash:      claim.QRHash,
	}

	if claim.Event != nil {
		resp.Event = newEventSummary(*claim.Event)
	}

	return resp, nil
}

// findAndClaim drives the claim state machine: fetch the pool, recover an
// empty pool with one replenish request, walk the candidates in listing
// order, then perform exactly one more replenish-and-retry cycle before
// giving up. The vendor's redeem endpoint is the authoritative arbiter of
// every race; this loop only absorbs the expected lost ones.
//
// A redeem-stage rejection is absorbed per candidate but escalates once
// every avenue is exhausted: the vendor's wording does not distinguish "a
// faster claimant took this code" from "this address already holds the
// token", and the top of the mint flow resolves that ambiguity through an
// ownership scan. Exhaustion without any redeem rejection is plain pool
// starvation.
func (d *poapDomain) findAndClaim(
	ctx context.Context, event config.EventConfigs, address string,
) (string, error) {
	codes, err := d.unclaimedCodes(ctx, event)
	if err != nil {
		return "", err
	}

	if len(codes) == 0 {
		if codes, err = d.replenish(ctx, event); err != nil {
			return "", err
		}
	}

	var lastRace error
	qrHash, err := d.tryClaim(ctx, codes, address, &lastRace)
	if err != nil {
		return "", err
	}
	if qrHash != "" {
		return qrHash, nil
	}

	// Every candidate was taken by someone else. Grow the pool once more and
	// retry before reporting exhaustion.
	if codes, err = d.replenish(ctx, event); err != nil {
		return "", err
	}

	if len(codes) > 0 {
		qrHash, err = d.tryClaim(ctx, codes, address, &lastRace)
		if err != nil {
			return "", err
		}
		if qrHash != "" {
			return qrHash, nil
		}
	}

	if lastRace != nil {
		return "", lastRace
	}

	return "", errorx.New(errorx.NotFound, "All POAPs are claimed. Please try again later.")
}

// tryClaim walks the candidates in listing order and redeems the first one
// still available. Returns an empty hash if every candidate was lost to a
// concurrent claimant; any error other than a lost race aborts immediately.
// Redeem-stage race rejections are recorded into lastRace.
func (d *poapDomain) tryClaim(
	ctx context.Context, codes []poap.QRCode, address string, lastRace *error,
) (string, error) {
	for _, code := range codes {
		// The listing snapshot may be stale, re-verify before claiming. The
		// check itself is still not atomic with the claim below.
		status, err := d.poapEndpoint.CheckQRCodeStatus(ctx, code.QRHash)
		if err != nil {
			if poap.IsAlreadyClaimed(err) {
				continue
			}
			return "", err
		}

		if status.Claimed {
			continue
		}

		if _, err := d.poapEndpoint.ClaimQR(ctx, code.QRHash, address); err != nil {
			if poap.IsAlreadyClaimed(err) {
				xcontext.Logger(ctx).Debugf(
					"Lost the claim race on code %s, trying the next one", code.QRHash)
				*lastRace = err
				continue
			}
			return "", err
		}

		return code.QRHash, nil
	}

	return "", nil
}

func (d *poapDomain) unclaimedCodes(
	ctx context.Context, event config.EventConfigs,
) ([]poap.QRCode, error) {
	codes, err := d.poapEndpoint.GetQRCodes(ctx, event.EventID, event.SecretCode)
	if err != nil {
		return nil, err
	}

	var unclaimed []poap.QRCode
	for _, code := range codes {
		if !code.Claimed {
			unclaimed = append(unclaimed, code)
		}
	}

	return unclaimed, nil
}

// replenish asks the vendor for more pool capacity, waits for provisioning
// to become visible, and returns a fresh filtered snapshot.
func (d *poapDomain) replenish(
	ctx context.Context, event config.EventConfigs,
) ([]poap.QRCode, error) {
	if err := d.poapEndpoint.RequestMoreCodes(ctx, event.EventID); err != nil {
		return nil, err
	}

	if err := d.settle(ctx); err != nil {
		return nil, err
	}

	return d.unclaimedCodes(ctx, event)
}

// settle waits out the vendor's eventually-consistent provisioning. The
// duration is empirically tuned configuration, not an invariant.
func (d *poapDomain) settle(ctx context.Context) error {
	delay := d.cfg.Claim.SettleDelay
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// recoverExistingToken converts an already-minted failure into the token the
// address actually holds. Returns nil if the token cannot be recovered; the
// caller then surfaces the original error.
func (d *poapDomain) recoverExistingToken(
	ctx context.Context, eventID int64, address string,
) *model.MintPoapResponse {
	token, err := d.poapEndpoint.ScanAddressForEvent(ctx, address, eventID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot scan address %s for event %d: %v", address, eventID, err)
		return nil
	}

	if token == nil {
		return nil
	}

	if token.ID == 0 {
		xcontext.Logger(ctx).Errorf(
			"Scan found an existing POAP of %s for event %d but no usable token id",
			address, eventID)
		return nil
	}

	claimedDate := token.Created
	if claimedDate == "" {
		if details, err := d.poapEndpoint.GetToken(ctx, token.ID); err == nil {
			claimedDate = details.Created
		} else {
			xcontext.Logger(ctx).Warnf("Cannot fetch token %d for its claimed date: %v", token.ID, err)
		}
	}
	if claimedDate == "" {
		claimedDate = time.Now().UTC().Format(time.RFC3339)
	}

	event, err := d.poapEndpoint.GetEvent(ctx, eventID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot fetch event %d during recovery: %v", eventID, err)
		return nil
	}

	respEventID := eventID
	if token.Event != nil && token.Event.ID != 0 {
		respEventID = token.Event.ID
	}

	return &model.MintPoapResponse{
		Message:     "You already have this POAP!",
		TokenID:     token.ID,
		EventID:     respEventID,
		ClaimedDate: claimedDate,
		Event: &model.EventSummary{
			ID:          event.ID,
			FancyID:     event.FancyID,
			Name:        event.Name,
			Description: event.Description,
			ImageURL:    event.ImageURL,
			Year:        event.Year,
			StartDate:   event.StartDate,
			EndDate:     event.EndDate,
		},
		AlreadyOwned: true,
	}
}

func (d *poapDomain) GetEvent(
	ctx context.Context, req *model.GetEventRequest,
) (*model.GetEventResponse, error) {
	if req.EventID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid event ID")
	}

	event, err := d.poapEndpoint.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, d.userError(ctx, err)
	}

	return &model.GetEventResponse{
		ID:           event.ID,
		FancyID:      event.FancyID,
		Name:         event.Name,
		Description:  event.Description,
		LocationType: event.LocationType,
		City:         event.City,
		Country:      event.Country,
		EventURL:     event.EventURL,
		ImageURL:     event.ImageURL,
		AnimationURL: event.AnimationURL,
		Year:         event.Year,
		StartDate:    event.StartDate,
		EndDate:      event.EndDate,
		ExpiryDate:   event.ExpiryDate,
		Timezone:     event.Timezone,
		VirtualEvent: event.VirtualEvent,
	}, nil
}

func (d *poapDomain) GetToken(
	ctx context.Context, req *model.GetTokenRequest,
) (*model.GetTokenResponse, error) {
	if req.TokenID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid token ID")
	}

	token, err := d.poapEndpoint.GetToken(ctx, req.TokenID)
	if err != nil {
		return nil, d.userError(ctx, err)
	}

	resp := &model.GetTokenResponse{
		ID:      token.ID,
		Owner:   token.Owner,
		Created: token.Created,
	}

	if token.Event != nil {
		resp.Event = newEventSummary(*token.Event)
	}

	return resp, nil
}

// userError maps an internal failure to the structured error the caller
// receives. Vendor classification details stay in the logs.
func (d *poapDomain) userError(ctx context.Context, err error) error {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx
	}

	var poapErr poap.Error
	if errors.As(err, &poapErr) {
		xcontext.Logger(ctx).Errorf("POAP vendor call failed (kind=%d status=%d): %s",
			poapErr.Kind, poapErr.StatusCode, poapErr.Message)

		if poapErr.Kind == poap.KindNotConfigured {
			return errorx.New(errorx.Internal, "POAP configuration is incomplete")
		}

		return errorx.New(errorx.Unavailable, poapErr.Message)
	}

	xcontext.Logger(ctx).Errorf("Cannot complete the POAP request: %v", err)
	return errorx.Unknown
}

func newEventSummary(event poap.EventSummary) *model.EventSummary {
	return &model.EventSummary{
		ID:          event.ID,
		FancyID:     event.FancyID,
		Name:        event.Name,
		Description: event.Description,
		ImageURL:    event.ImageURL,
		Year:        event.Year,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
	}
}

// isWalletAddress reports whether s is a 0x-prefixed 40-hex-digit account
// identifier. The prefix is required; IsHexAddress alone also accepts bare
// hex.
func isWalletAddress(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "0x") && ethcommon.IsHexAddress(s)
}
