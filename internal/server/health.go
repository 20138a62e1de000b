package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-knc/knc/internal/logging"
)

func HandleHealth(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(ctx)
		select {
		case <-ctx.Done():
			logger.Debugf("health check stopped")
			http.Error(w, `{"status": "shutting down"}`, http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = fmt.Fprintf(w, `{"status": "ok"}`)
		}
	})
}
