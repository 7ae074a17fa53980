package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/quizdrop/backend/pkg/router"
	"github.com/quizdrop/backend/pkg/xcontext"
)

// Logger reports every finished request with its status and latency.
func Logger() router.AfterFunc {
	return func(ctx context.Context, r *http.Request, status int, elapsed time.Duration) {
		xcontext.Logger(ctx).Infof("%s %s %d %s (request %s)",
			r.Method, r.URL.Path, status, elapsed, xcontext.RequestID(ctx))
	}
}
