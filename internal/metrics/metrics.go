// Package metrics exports the service counters through opencensus to
// a prometheus scrape handler.
package metrics

import (
	"fmt"
	"net/http"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
)

var (
	SamplesCollected = stats.Int64("knc/samples_collected", "Labeled samples accepted for collection", stats.UnitDimensionless)
	Classifications  = stats.Int64("knc/classifications", "Points classified", stats.UnitDimensionless)
	Evaluations      = stats.Int64("knc/evaluations", "Cross-validation evaluations performed", stats.UnitDimensionless)
)

var views = []*view.View{
	{
		Name:        "knc/samples_collected",
		Description: "Labeled samples accepted for collection",
		Measure:     SamplesCollected,
		Aggregation: view.Count(),
	},
	{
		Name:        "knc/classifications",
		Description: "Points classified",
		Measure:     Classifications,
		Aggregation: view.Count(),
	},
	{
		Name:        "knc/evaluations",
		Description: "Cross-validation evaluations performed",
		Measure:     Evaluations,
		Aggregation: view.Count(),
	},
}

// NewExporter registers the views and returns the prometheus scrape
// handler.
func NewExporter() (http.Handler, error) {
	pe, err := prometheus.NewExporter(prometheus.Options{Namespace: "knc"})
	if err != nil {
		return nil, fmt.Errorf("unable create prometheus exporter: %w", err)
	}
	if err := view.Register(views...); err != nil {
		return nil, fmt.Errorf("unable register metric views: %w", err)
	}
	view.RegisterExporter(pe)
	return pe, nil
}
