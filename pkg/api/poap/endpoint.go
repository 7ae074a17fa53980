package poap

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/puzpuzpuz/xsync"
	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/pkg/api"
	"github.com/quizdrop/backend/pkg/xcontext"
)

const apiURL = "https://api.poap.tech"
const authURL = "https://auth.accounts.poap.xyz"

// The vendor accepts any value here since secrets moved into the bearer
// token, but the field itself is still required.
const claimSecretSentinel = "NOT_REQUIRED_ANYMORE"

const tokenExpiryMargin = 60 * time.Second

type accessToken struct {
	value     string
	expiresAt time.Time
}

type Endpoint struct {
	cfg config.PoapConfigs

	apiGenerator  api.Generator
	authGenerator api.Generator

	// token is the process-wide credential cache. Refresh is idempotent, so
	// concurrent refreshes are allowed and last writer wins.
	token atomic.Pointer[accessToken]

	// lastReplenish throttles redundant pool-growth requests issued by
	// racing mint flows, keyed by event id.
	lastReplenish *xsync.MapOf[string, time.Time]
}

func New(cfg config.PoapConfigs) *Endpoint {
	if cfg.APIURL == "" {
		cfg.APIURL = apiURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = authURL
	}

	return &Endpoint{
		cfg:           cfg,
		apiGenerator:  api.NewGenerator(cfg.APIURL),
		authGenerator: api.NewGenerator(cfg.AuthURL),
		lastReplenish: xsync.NewMapOf[time.Time](),
	}
}

func (e *Endpoint) GetAccessToken(ctx context.Context) (string, error) {
	if err := e.cfg.Validate(); err != nil {
		return "", newError(KindNotConfigured, 0, "%s", err.Error())
	}

	if cached := e.token.Load(); cached != nil && time.Now().Before(cached.expiresAt) {
		return cached.value, nil
	}

	resp, err := e.authGenerator.New("/oauth/token").
		Body(api.JSON{
			"audience":      apiURL,
			"grant_type":    "client_credentials",
			"client_id":     e.cfg.ClientID,
			"client_secret": e.cfg.ClientSecret,
		}).
		POST(ctx)
	if err != nil {
		return "", newError(KindTransport, 0, "cannot request access token: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", newError(KindBadResponse, resp.Code, "invalid access token response")
	}

	value, err := body.GetString("access_token")
	if err != nil {
		return "", newError(KindBadResponse, resp.Code, "no access token in response: %v", err)
	}

	expiresIn, err := body.GetInt("expires_in")
	if err != nil {
		return "", newError(KindBadResponse, resp.Code, "no expiry in response: %v", err)
	}

	token := &accessToken{
		value:     value,
		expiresAt: time.Now().Add(time.Duration(expiresIn)*time.Second - tokenExpiryMargin),
	}
	e.token.Store(token)

	return token.value, nil
}

func (e *Endpoint) GetQRCodes(
	ctx context.Context, eventID int64, secretCode string,
) ([]QRCode, error) {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := e.apiGenerator.New("/event/%d/qr-codes", eventID).
		Body(api.JSON{"secret_code": secretCode}).
		POST(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return nil, newError(KindTransport, 0, "cannot list qr codes: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		xcontext.Logger(ctx).Warnf("Listing qr codes of event %d failed: %v", eventID, err)
		return nil, err
	}

	array, ok := resp.Body.(api.Array)
	if !ok {
		return nil, newError(KindBadResponse, resp.Code, "invalid qr codes response")
	}

	codes := make([]QRCode, 0, len(array))
	for _, obj := range array {
		var code QRCode
		if err := decode(obj, &code); err != nil {
			return nil, newError(KindBadResponse, resp.Code, "invalid qr code entry: %v", err)
		}

		codes = append(codes, code)
	}

	return codes, nil
}

func (e *Endpoint) CheckQRCodeStatus(ctx context.Context, qrHash string) (ClaimQR, error) {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return ClaimQR{}, err
	}

	resp, err := e.apiGenerator.New("/actions/claim-qr").
		Query(api.Parameter{"qr_hash": qrHash}).
		GET(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return ClaimQR{}, newError(KindTransport, 0, "cannot check qr code status: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		return ClaimQR{}, err
	}

	var claim ClaimQR
	if err := decode(resp.Body, &claim); err != nil {
		return ClaimQR{}, newError(KindBadResponse, resp.Code, "invalid claim-qr response: %v", err)
	}

	return claim, nil
}

func (e *Endpoint) ClaimQR(ctx context.Context, qrHash, address string) (ClaimQR, error) {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return ClaimQR{}, err
	}

	resp, err := e.apiGenerator.New("/actions/claim-qr").
		Body(api.JSON{
			"qr_hash":   qrHash,
			"address":   address,
			"sendEmail": true,
			"secret":    claimSecretSentinel,
		}).
		POST(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return ClaimQR{}, newError(KindTransport, 0, "cannot claim qr code: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		return ClaimQR{}, err
	}

	var claim ClaimQR
	if err := decode(resp.Body, &claim); err != nil {
		return ClaimQR{}, newError(KindBadResponse, resp.Code, "invalid claim response: %v", err)
	}

	return claim, nil
}

func (e *Endpoint) RequestMoreCodes(ctx context.Context, eventID int64) error {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	key := strconv.FormatInt(eventID, 10)
	if last, ok := e.lastReplenish.Load(key); ok {
		if time.Since(last) < e.cfg.Claim.ReplenishCooldown {
			xcontext.Logger(ctx).Debugf(
				"Skip replenish request for event %d, last one was %s ago",
				eventID, time.Since(last))
			return nil
		}
	}

	requested := e.cfg.Claim.RequestedCodes
	if requested <= 0 {
		requested = 25
	}

	resp, err := e.apiGenerator.New("/redeem-requests").
		Body(api.JSON{
			"event_id":        eventID,
			"requested_codes": requested,
		}).
		POST(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return newError(KindTransport, 0, "cannot request more codes: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		return err
	}

	e.lastReplenish.Store(key, time.Now())
	return nil
}

func (e *Endpoint) GetEvent(ctx context.Context, eventID int64) (Event, error) {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return Event{}, err
	}

	resp, err := e.apiGenerator.New("/events/id/%d", eventID).
		GET(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return Event{}, newError(KindTransport, 0, "cannot get event details: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		return Event{}, err
	}

	var event Event
	if err := decode(resp.Body, &event); err != nil {
		return Event{}, newError(KindBadResponse, resp.Code, "invalid event response: %v", err)
	}

	return event, nil
}

func (e *Endpoint) GetToken(ctx context.Context, tokenID int64) (Token, error) {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return Token{}, err
	}

	resp, err := e.apiGenerator.New("/token/%d", tokenID).
		GET(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return Token{}, newError(KindTransport, 0, "cannot get token details: %v", err)
	}

	if err := e.responseError(resp); err != nil {
		return Token{}, err
	}

	var token Token
	if err := decode(resp.Body, &token); err != nil {
		return Token{}, newError(KindBadResponse, resp.Code, "invalid token response: %v", err)
	}

	return token, nil
}

func (e *Endpoint) ScanAddressForEvent(
	ctx context.Context, address string, eventID int64,
) (*Token, error) {
	bearer, err := e.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := e.apiGenerator.New("/actions/scan/%s/%d", address, eventID).
		GET(ctx, api.OAuth2("Bearer", bearer), api.APIKey(e.cfg.APIKey))
	if err != nil {
		return nil, newError(KindTransport, 0, "cannot scan address: %v", err)
	}

	if resp.Code == 404 {
		return nil, nil
	}

	if err := e.responseError(resp); err != nil {
		return nil, err
	}

	// The scan endpoint returns either a single record or an array of them.
	var body api.JSON
	switch b := resp.Body.(type) {
	case api.JSON:
		body = b
	case api.Array:
		if len(b) == 0 {
			return nil, nil
		}
		body = b[0]
	default:
		return nil, newError(KindBadResponse, resp.Code, "invalid scan response")
	}

	var token Token
	if err := decode(body, &token); err != nil {
		return nil, newError(KindBadResponse, resp.Code, "invalid scan record: %v", err)
	}

	// Some scan responses carry the token id under an alternative key.
	if token.ID == 0 {
		for _, key := range []string{"tokenId", "token_id"} {
			if id, err := body.GetInt(key); err == nil && id != 0 {
				token.ID = int64(id)
				break
			}
		}
	}

	return &token, nil
}

// responseError translates a non-2xx vendor response into a classified Error.
// This is the single place where vendor error wording is inspected.
func (e *Endpoint) responseError(resp *api.Response) error {
	if resp.Code >= 200 && resp.Code < 300 {
		return nil
	}

	message := ""
	if body, ok := resp.Body.(api.JSON); ok {
		if m, err := body.GetString("message"); err == nil && m != "" {
			message = m
		} else if m, err := body.GetString("error"); err == nil && m != "" {
			message = m
		}
	}

	if message == "" {
		message = string(resp.RawBody)
	}

	if message == "" {
		message = "unknown vendor error"
	}

	return Error{
		Kind:       classifyMessage(resp.Code, message),
		StatusCode: resp.Code,
		Message:    message,
	}
}

func decode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
