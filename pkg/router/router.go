package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/quizdrop/backend/config"
	"github.com/quizdrop/backend/pkg/logger"
	"github.com/quizdrop/backend/pkg/xcontext"
	"github.com/rs/cors"

	"context"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// BeforeFunc runs before the handler and may replace the request context.
// A returned error stops the request.
type BeforeFunc func(ctx context.Context, r *http.Request) (context.Context, error)

// AfterFunc runs after the response has been written.
type AfterFunc func(ctx context.Context, r *http.Request, status int, elapsed time.Duration)

type Router struct {
	mux    *http.ServeMux
	cfg    config.Configs
	logger logger.Logger
	client *http.Client

	befores []BeforeFunc
	afters  []AfterFunc
}

func New(cfg config.Configs, l logger.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		logger: l,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Router) Before(f BeforeFunc) {
	r.befores = append(r.befores, f)
}

func (r *Router) After(f AfterFunc) {
	r.afters = append(r.afters, f)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	options := cors.Options{
		AllowedOrigins: r.cfg.ApiServer.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}

	return cors.New(options).Handler(r.mux)
}

func (r *Router) baseContext(req *http.Request) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithHTTPClient(ctx, r.client)
	ctx = xcontext.WithRequestID(ctx, uuid.NewString())
	return ctx
}
