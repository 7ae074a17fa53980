package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quizdrop/backend/pkg/errorx"
)

func wrapHandler[Request, Response any](
	rt *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		if r.Method != method {
			writeError(rt, w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		ctx := rt.baseContext(r)

		var err error
		for _, before := range rt.befores {
			if ctx, err = before(ctx, r); err != nil {
				rt.finish(ctx, w, r, err, nil, started)
				return
			}
		}

		var req Request
		switch method {
		case http.MethodGet:
			err = bindQuery(r, &req)
		case http.MethodPost:
			err = json.NewDecoder(r.Body).Decode(&req)
		}
		if err != nil {
			rt.finish(ctx, w, r, errorx.New(errorx.BadRequest, "Cannot parse the request"), nil, started)
			return
		}

		resp, err := handler(ctx, &req)
		rt.finish(ctx, w, r, err, resp, started)
	}
}

func (rt *Router) finish(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	err error,
	resp any,
	started time.Time,
) {
	status := http.StatusOK
	if err != nil {
		status = StatusCode(err)
		writeError(rt, w, status, userMessage(err))
	} else {
		writeJSON(rt, w, status, resp)
	}

	for _, after := range rt.afters {
		after(ctx, r, status, time.Since(started))
	}
}

// StatusCode maps a classified error to the HTTP status the caller sees.
// Unclassified errors are internal.
func StatusCode(err error) int {
	errx, ok := err.(errorx.Error)
	if !ok {
		return http.StatusInternalServerError
	}

	switch errx.Code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	if errx, ok := err.(errorx.Error); ok {
		return errx.Message
	}

	return errorx.Unknown.Message
}

func writeError(rt *Router, w http.ResponseWriter, status int, message string) {
	writeJSON(rt, w, status, map[string]string{"error": message})
}

func writeJSON(rt *Router, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rt.logger.Errorf("Cannot write the response: %v", err)
	}
}
