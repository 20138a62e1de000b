package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-knc/knc/internal/dispatcher"
	"github.com/go-knc/knc/internal/geom"
	"github.com/go-knc/knc/internal/httputil"
	"github.com/go-knc/knc/internal/logging"
	"github.com/go-knc/knc/internal/metrics"
	"go.opencensus.io/stats"
	"golang.org/x/sync/errgroup"
)

const maxBodyBytes = 64 * 1024 * 1024

type request struct {
	EntityID string `json:"entity"`
	Data     []struct {
		Vec       []float64   `json:"vector"`
		Extra     interface{} `json:"extra"`
		CreatedAt time.Time   `json:"createdAt"`
	} `json:"data"`
}

type result struct {
	Label     float64     `json:"label"`
	Vec       []float64   `json:"vector"`
	Extra     interface{} `json:"extra"`
	CreatedAt time.Time   `json:"createdAt"`
}

type response struct {
	EntityID string   `json:"entity"`
	Data     []result `json:"data"`
}

func NewHandler(cfg *Config, classifier dispatcher.Classifier) (http.Handler, error) {
	return &handler{
		cfg:        cfg,
		classifier: classifier,
	}, nil
}

type handler struct {
	classifier dispatcher.Classifier
	cfg        *Config
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

	if len(req.Data) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, `{"error": "data items is too large, max allowed len is %d"}`, h.cfg.MaxDataItemsLen)
		return
	}
	var respData []result
	errGrp := errgroup.Group{}
	mtx := sync.Mutex{}
	for _, dat := range req.Data {
		dat := dat
		errGrp.Go(func() error {
			point := geom.New(dat.Vec)
			label, err := h.classifier.Classify(req.EntityID, point)
			if err != nil {
				return fmt.Errorf("classify error: %v", err)
			}
			mtx.Lock()
			respData = append(respData, result{
				Label:     label,
				Vec:       point.Points(),
				Extra:     dat.Extra,
				CreatedAt: dat.CreatedAt,
			})
			mtx.Unlock()
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "classify processing error, %v"}`, err)
		return
	}
	stats.Record(ctx, metrics.Classifications.M(int64(len(respData))))
	resp := response{
		EntityID: req.EntityID,
		Data:     respData,
	}
	bytes, err := json.Marshal(resp)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s", bytes)
}
