package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/pkg/errorx"
	"github.com/quizdrop/backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
	Count    int64  `json:"count"`
}

func newTestRouter() *Router {
	return New(config.Configs{}, logger.NewLogger(logger.SILENCE))
}

func Test_Router_GET(t *testing.T) {
	r := newTestRouter()
	GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name, Count: req.Count}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo?name=world&count=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"greeting": "hello world", "count": 3}`, w.Body.String())
}

func Test_Router_POST(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name, Count: req.Count}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(
		http.MethodPost, "/echo", strings.NewReader(`{"name": "world", "count": 3}`)))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"greeting": "hello world", "count": 3}`, w.Body.String())
}

func Test_Router_MethodNotAllowed(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func Test_Router_UnparsableBody(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(
		http.MethodPost, "/echo", strings.NewReader(`{"name": `)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error": "Cannot parse the request"}`, w.Body.String())
}

func Test_Router_HandlerError(t *testing.T) {
	r := newTestRouter()
	GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.New(errorx.NotFound, "All POAPs are claimed. Please try again later.")
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error": "All POAPs are claimed. Please try again later."}`, w.Body.String())
}

func Test_Router_UnclassifiedErrorIsOpaque(t *testing.T) {
	r := newTestRouter()
	GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errors.New("secret internal detail")
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "secret internal detail")
	require.JSONEq(t, `{"error": "Request failed"}`, w.Body.String())
}

func Test_Router_BeforeAndAfter(t *testing.T) {
	r := newTestRouter()

	type ctxKey struct{}
	r.Before(func(ctx context.Context, req *http.Request) (context.Context, error) {
		return context.WithValue(ctx, ctxKey{}, "seen"), nil
	})

	afterStatus := 0
	r.After(func(ctx context.Context, req *http.Request, status int, elapsed time.Duration) {
		afterStatus = status
	})

	GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		require.Equal(t, "seen", ctx.Value(ctxKey{}))
		return &echoResponse{}, nil
	})

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, afterStatus)
}

func Test_StatusCode(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, StatusCode(errorx.New(errorx.BadRequest, "x")))
	require.Equal(t, http.StatusNotFound, StatusCode(errorx.New(errorx.NotFound, "x")))
	require.Equal(t, http.StatusUnauthorized, StatusCode(errorx.New(errorx.Unauthenticated, "x")))
	require.Equal(t, http.StatusTooManyRequests, StatusCode(errorx.New(errorx.TooManyRequests, "x")))
	require.Equal(t, http.StatusInternalServerError, StatusCode(errorx.New(errorx.Internal, "x")))
	require.Equal(t, http.StatusInternalServerError, StatusCode(errorx.New(errorx.Unavailable, "x")))
	require.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("x")))
}

func Test_bindQuery(t *testing.T) {
	type request struct {
		Name   string `json:"name"`
		ID     int64  `json:"id"`
		Flag   bool   `json:"flag"`
		Hidden string `json:"-"`
	}

	var req request
	httpReq := httptest.NewRequest(http.MethodGet, "/x?name=abc&id=42&flag=true&Hidden=no", nil)
	require.NoError(t, bindQuery(httpReq, &req))
	require.Equal(t, request{Name: "abc", ID: 42, Flag: true}, req)

	var bad request
	httpReq = httptest.NewRequest(http.MethodGet, "/x?id=abc", nil)
	require.Error(t, bindQuery(httpReq, &bad))
}
