package knc

import (
	"github.com/go-knc/knc/internal/classify"
	"github.com/go-knc/knc/internal/collect"
	"github.com/go-knc/knc/internal/database"
	"github.com/go-knc/knc/internal/dispatcher"
	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/evaluate"
	"github.com/go-knc/knc/internal/ingest"
	"github.com/go-knc/knc/internal/report"
	"github.com/go-knc/knc/internal/setup"
)

var (
	_ setup.EstimatorConfigProvider  = (*Config)(nil)
	_ setup.DatabaseConfigProvider   = (*Config)(nil)
	_ setup.NotifierConfigProvider   = (*Config)(nil)
	_ setup.IngestConfigProvider     = (*Config)(nil)
	_ setup.DispatcherConfigProvider = (*Config)(nil)
	_ setup.SvcModeConfigProvider    = (*Config)(nil)
)

const (
	SvcModeTypeCollect = "COLLECT"
	SvcModeTypeIngest  = "INGEST"
)

type Config struct {
	SvcModeType string `envconfig:"KNC_SVC_MODE" default:"COLLECT"`
	SrvAddr     string `envconfig:"KNC_ADDR" default:":8787"`
	Dispatcher  dispatcher.Config
	Collect     collect.Config
	Classify    classify.Config
	Evaluate    evaluate.Config
	Database    database.Config
	Ingest      ingest.Config
	Estimator   estimator.Config
	Report      report.Config
}

func (c Config) SvcMode() string {
	return c.SvcModeType
}

func (c Config) DispatcherConfig() *dispatcher.Config {
	return &c.Dispatcher
}

func (c Config) NotifyConfig() *report.Config {
	return &c.Report
}

func (c Config) IngestConfig() *ingest.Config {
	return &c.Ingest
}

func (c Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c Config) EstimatorType() estimator.AlgType {
	return c.Estimator.Type
}

func (c Config) EstimatorConfig() *estimator.Config {
	return &c.Estimator
}
