package poap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/pkg/api"
	"github.com/stretchr/testify/require"
)

func testConfigs() config.PoapConfigs {
	return config.PoapConfigs{
		APIKey:       "test-api-key",
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		Events: map[string]config.EventConfigs{
			"mini app maxi": {EventID: 101, SecretCode: "secret-101"},
		},
		Claim: config.ClaimConfigs{
			RequestedCodes:    25,
			ReplenishCooldown: 30 * time.Second,
		},
	}
}

type vendorCall struct {
	method string
	path   string
	query  api.Parameter
	body   api.JSON
}

// newVendorGenerator builds a generator whose clients record the request they
// were composed with and hand it to route for the response.
func newVendorGenerator(
	t *testing.T, calls *[]vendorCall, route func(call vendorCall) *api.Response,
) *api.MockAPIGenerator {
	return &api.MockAPIGenerator{
		NewFunc: func(path string, args ...any) api.Client {
			call := vendorCall{path: fmt.Sprintf(path, args...)}

			client := &api.MockAPIClient{}
			client.QueryFunc = func(query api.Parameter) api.Client {
				call.query = query
				return client
			}
			client.BodyFunc = func(body api.Body) api.Client {
				j, ok := body.(api.JSON)
				require.True(t, ok)
				call.body = j
				return client
			}
			client.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				call.method = "POST"
				*calls = append(*calls, call)
				return route(call), nil
			}
			client.GETFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
				call.method = "GET"
				*calls = append(*calls, call)
				return route(call), nil
			}

			return client
		},
	}
}

func newTestEndpoint(
	t *testing.T, authCalls *[]vendorCall, apiCalls *[]vendorCall,
	route func(call vendorCall) *api.Response,
) *Endpoint {
	e := New(testConfigs())
	e.authGenerator = newVendorGenerator(t, authCalls, func(call vendorCall) *api.Response {
		return &api.Response{
			Code: 200,
			Body: api.JSON{"access_token": "issued-token", "expires_in": float64(3600)},
		}
	})
	e.apiGenerator = newVendorGenerator(t, apiCalls, route)
	return e
}

func Test_Endpoint_GetAccessToken_Caching(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, nil)

	token, err := e.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "issued-token", token)

	token, err = e.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "issued-token", token)

	// The second call is served from the cache.
	require.Len(t, authCalls, 1)
	require.Equal(t, "/oauth/token", authCalls[0].path)
	require.Equal(t, "client_credentials", authCalls[0].body["grant_type"])
	require.Equal(t, "test-client-id", authCalls[0].body["client_id"])
}

func Test_Endpoint_GetAccessToken_RefreshAfterExpiry(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, nil)

	_, err := e.GetAccessToken(context.Background())
	require.NoError(t, err)

	// Simulate the cached token running into the expiry margin.
	e.token.Store(&accessToken{value: "issued-token", expiresAt: time.Now().Add(-time.Second)})

	_, err = e.GetAccessToken(context.Background())
	require.NoError(t, err)
	require.Len(t, authCalls, 2)
}

func Test_Endpoint_GetAccessToken_NotConfigured(t *testing.T) {
	cfg := testConfigs()
	cfg.ClientSecret = config.Placeholder
	e := New(cfg)

	_, err := e.GetAccessToken(context.Background())
	require.Error(t, err)
	require.True(t, IsNotConfigured(err))
}

func Test_Endpoint_GetQRCodes(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
		return &api.Response{Code: 200, Body: api.Array{
			{"qr_hash": "a", "claimed": false},
			{"qr_hash": "b", "claimed": true},
		}}
	})

	codes, err := e.GetQRCodes(context.Background(), 101, "secret-101")
	require.NoError(t, err)
	require.Equal(t, []QRCode{
		{QRHash: "a", Claimed: false},
		{QRHash: "b", Claimed: true},
	}, codes)

	require.Len(t, apiCalls, 1)
	require.Equal(t, "POST", apiCalls[0].method)
	require.Equal(t, "/event/101/qr-codes", apiCalls[0].path)
	require.Equal(t, "secret-101", apiCalls[0].body["secret_code"])
}

func Test_Endpoint_CheckQRCodeStatus(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
		return &api.Response{Code: 200, Body: api.JSON{
			"id":           float64(9001),
			"qr_hash":      "a",
			"event_id":     float64(101),
			"claimed":      true,
			"claimed_date": "2026-08-28T10:00:00Z",
			"event":        map[string]any{"id": float64(101), "name": "Mini App Maxi Drop"},
		}}
	})

	claim, err := e.CheckQRCodeStatus(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, int64(9001), claim.ID)
	require.Equal(t, int64(101), claim.EventID)
	require.True(t, claim.Claimed)
	require.NotNil(t, claim.Event)
	require.Equal(t, "Mini App Maxi Drop", claim.Event.Name)

	require.Len(t, apiCalls, 1)
	require.Equal(t, "GET", apiCalls[0].method)
	require.Equal(t, "/actions/claim-qr", apiCalls[0].path)
	require.Equal(t, api.Parameter{"qr_hash": "a"}, apiCalls[0].query)
}

func Test_Endpoint_ClaimQR_AlreadyClaimed(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
		return &api.Response{
			Code:    400,
			Body:    api.JSON{"message": "QR Claim already claimed"},
			RawBody: []byte(`{"message":"QR Claim already claimed"}`),
		}
	})

	_, err := e.ClaimQR(context.Background(), "a", "0xabc")
	require.Error(t, err)
	require.True(t, IsAlreadyClaimed(err))
	require.Equal(t, "QR Claim already claimed", err.Error())

	require.Len(t, apiCalls, 1)
	require.Equal(t, "a", apiCalls[0].body["qr_hash"])
	require.Equal(t, "0xabc", apiCalls[0].body["address"])
	require.Equal(t, true, apiCalls[0].body["sendEmail"])
	require.Equal(t, claimSecretSentinel, apiCalls[0].body["secret"])
}

func Test_Endpoint_RequestMoreCodes_Cooldown(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
		return &api.Response{Code: 200, Body: api.JSON{"id": float64(1)}}
	})

	require.NoError(t, e.RequestMoreCodes(context.Background(), 101))
	require.NoError(t, e.RequestMoreCodes(context.Background(), 101))

	// The second request inside the cooldown window is not forwarded.
	require.Len(t, apiCalls, 1)
	require.Equal(t, "/redeem-requests", apiCalls[0].path)
	require.Equal(t, int64(101), apiCalls[0].body["event_id"])
	require.Equal(t, 25, apiCalls[0].body["requested_codes"])

	// Another event has its own cooldown.
	require.NoError(t, e.RequestMoreCodes(context.Background(), 102))
	require.Len(t, apiCalls, 2)

	// After the cooldown elapses the request goes through again.
	e.lastReplenish.Store("101", time.Now().Add(-time.Minute))
	require.NoError(t, e.RequestMoreCodes(context.Background(), 101))
	require.Len(t, apiCalls, 3)
}

func Test_Endpoint_ScanAddressForEvent(t *testing.T) {
	t.Run("no token yet", func(t *testing.T) {
		var authCalls, apiCalls []vendorCall
		e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
			return &api.Response{Code: 404, Body: api.JSON{"message": "Scan not found"}}
		})

		token, err := e.ScanAddressForEvent(context.Background(), "0xabc", 101)
		require.NoError(t, err)
		require.Nil(t, token)
		require.Equal(t, "/actions/scan/0xabc/101", apiCalls[0].path)
	})

	t.Run("single record", func(t *testing.T) {
		var authCalls, apiCalls []vendorCall
		e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
			return &api.Response{Code: 200, Body: api.JSON{
				"id":      float64(777),
				"owner":   "0xabc",
				"created": "2026-05-01T12:00:00Z",
			}}
		})

		token, err := e.ScanAddressForEvent(context.Background(), "0xabc", 101)
		require.NoError(t, err)
		require.NotNil(t, token)
		require.Equal(t, int64(777), token.ID)
		require.Equal(t, "0xabc", token.Owner)
	})

	t.Run("array record with alternate id key", func(t *testing.T) {
		var authCalls, apiCalls []vendorCall
		e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
			return &api.Response{Code: 200, Body: api.Array{
				{"tokenId": float64(778), "owner": "0xabc"},
			}}
		})

		token, err := e.ScanAddressForEvent(context.Background(), "0xabc", 101)
		require.NoError(t, err)
		require.NotNil(t, token)
		require.Equal(t, int64(778), token.ID)
	})

	t.Run("empty array", func(t *testing.T) {
		var authCalls, apiCalls []vendorCall
		e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
			return &api.Response{Code: 200, Body: api.Array{}}
		})

		token, err := e.ScanAddressForEvent(context.Background(), "0xabc", 101)
		require.NoError(t, err)
		require.Nil(t, token)
	})
}

func Test_Endpoint_GetEvent(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
		return &api.Response{Code: 200, Body: api.JSON{
			"id":   float64(101),
			"name": "Mini App Maxi Drop",
			"year": float64(2026),
		}}
	})

	event, err := e.GetEvent(context.Background(), 101)
	require.NoError(t, err)
	require.Equal(t, int64(101), event.ID)
	require.Equal(t, "Mini App Maxi Drop", event.Name)
	require.Equal(t, 2026, event.Year)
	require.Equal(t, "/events/id/101", apiCalls[0].path)
}

func Test_Endpoint_GetToken_NotFound(t *testing.T) {
	var authCalls, apiCalls []vendorCall
	e := newTestEndpoint(t, &authCalls, &apiCalls, func(call vendorCall) *api.Response {
		return &api.Response{Code: 404, RawBody: []byte("Token not found")}
	})

	_, err := e.GetToken(context.Background(), 999)
	require.Error(t, err)

	poapErr, ok := err.(Error)
	require.True(t, ok)
	require.Equal(t, KindNotFound, poapErr.Kind)
	require.Equal(t, 404, poapErr.StatusCode)
	require.Equal(t, "Token not found", poapErr.Message)
}
