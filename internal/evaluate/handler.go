package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-knc/knc/internal/dispatcher"
	"github.com/go-knc/knc/internal/httputil"
	"github.com/go-knc/knc/internal/logging"
	"github.com/go-knc/knc/internal/metrics"
	"go.opencensus.io/stats"
)

const maxBodyBytes = 1 * 1024 * 1024

type request struct {
	EntityID string `json:"entity"`
}

func NewHandler(cfg *Config, evaluator dispatcher.Evaluator) (http.Handler, error) {
	return &handler{
		cfg:       cfg,
		evaluator: evaluator,
	}, nil
}

type handler struct {
	evaluator dispatcher.Evaluator
	cfg       *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		logger.Debug(fmt.Sprintf(`{"error": "method %v is not allowed"}`, r.Method))
		_, _ = fmt.Fprintf(w, `{"error": "method %v is not allowed"}`, r.Method)
		return
	}

	if t := r.Header.Get("content-type"); len(t) < 16 || t[:16] != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		logger.Debug(fmt.Sprintf(`{"error": "%v"}`, "content-type is not application/json"))
		_, _ = fmt.Fprintf(w, `{"error": "%v"}`, "content-type is not application/json")
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	rep, err := h.evaluator.Evaluate(req.EntityID)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "evaluate processing error, %v"}`, err)
		return
	}
	stats.Record(ctx, metrics.Evaluations.M(1))
	logger.Infof("Evaluated entity %s over %d splits", req.EntityID, len(rep.Splits))

	bytes, err := json.Marshal(rep)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s", bytes)
}
