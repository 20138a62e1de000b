// Package setup assembles the service environment from the environment
// variables and an optional TOML config file.
package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-knc/knc/internal/database"
	"github.com/go-knc/knc/internal/dispatcher"
	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/estimator/knn"
	"github.com/go-knc/knc/internal/ingest"
	"github.com/go-knc/knc/internal/logging"
	"github.com/go-knc/knc/internal/report"
	"github.com/go-knc/knc/internal/srvenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	SvcModeIngest  string = "INGEST"
	SvcModeCollect string = "COLLECT"
)

// ConfigFileEnv names the optional TOML file loaded before the
// environment variables are applied.
const ConfigFileEnv = "KNC_CONFIG_FILE"

type SvcModeConfigProvider interface {
	SvcMode() string
}

type DispatcherConfigProvider interface {
	DispatcherConfig() *dispatcher.Config
}

type NotifierConfigProvider interface {
	NotifyConfig() *report.Config
}

type IngestConfigProvider interface {
	IngestConfig() *ingest.Config
}

type EstimatorConfigProvider interface {
	EstimatorConfig() *estimator.Config
	EstimatorType() estimator.AlgType
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option

	if file := os.Getenv(ConfigFileEnv); file != "" {
		if _, err := toml.DecodeFile(file, config); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", file, err)
		}
	}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	logger.Debugf("effective config: %s", spew.Sdump(config))

	var (
		db                  *database.DB
		estimatorProvideFn  estimator.ProvideFn
		notifierProvideFn   report.ProvideFn
		dispatcherProvideFn dispatcher.ProvideFn
		ingestProvideFn     ingest.ProvideFn
	)
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("Configuring database")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %v", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if notifyConfigProvider, ok := config.(NotifierConfigProvider); ok {
		logger.Info("Configuring report notifier")

		provideFn, err := ProvideNotifierFor(notifyConfigProvider, db)
		if err != nil {
			return nil, fmt.Errorf("unable create notifier provide function: %v", err)
		}
		notifierProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithNotifier(notifierProvideFn))
	}

	if estimatorConfigProvider, ok := config.(EstimatorConfigProvider); ok {
		logger.Info("Configuring estimator")

		provideFn, err := ProvideEstimatorFor(estimatorConfigProvider.EstimatorConfig())
		if err != nil {
			return nil, fmt.Errorf("unable create estimator provide function: %v", err)
		}
		estimatorProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithEstimator(estimatorProvideFn))
	}

	if dispatcherConfigProvider, ok := config.(DispatcherConfigProvider); ok {
		logger.Info("Configuring dispatcher")
		provideFn, err := ProvideDispatcherFor(dispatcherConfigProvider, estimatorProvideFn, db)
		if err != nil {
			return nil, fmt.Errorf("unable create dispatcher provide function: %v", err)
		}
		dispatcherProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDispatcher(dispatcherProvideFn))
	}

	if svcModeConfigProvider, ok := config.(SvcModeConfigProvider); ok && svcModeConfigProvider.SvcMode() == SvcModeIngest {
		if ingestConfigProvider, ok := config.(IngestConfigProvider); ok {
			logger.Info("Configuring ingest")
			provideFn, err := ProvideIngestFor(ingestConfigProvider)
			if err != nil {
				return nil, fmt.Errorf("unable create ingest provide function: %v", err)
			}
			ingestProvideFn = provideFn
			serverEnvOpts = append(serverEnvOpts, srvenv.WithIngest(ingestProvideFn))
		}
	}
	return srvenv.New(serverEnvOpts...), nil
}

func ProvideIngestFor(provider IngestConfigProvider) (ingest.ProvideFn, error) {
	cfg := provider.IngestConfig()
	return func(disp dispatcher.Manager, shutdownCh chan<- error) (ingest.Manager, error) {
		return ingest.New(
			disp,
			shutdownCh,
			ingest.WithInterval(cfg.Interval),
			ingest.WithJitter(cfg.Jitter),
			ingest.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			ingest.WithTargetURLs(cfg.Targets),
		)
	}, nil
}

func ProvideNotifierFor(provider NotifierConfigProvider, db *database.DB) (report.ProvideFn, error) {
	cfg := provider.NotifyConfig()
	return func(shutdownCh chan<- error) (report.Manager, error) {
		return report.New(
			db,
			shutdownCh,
			report.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			report.WithReportInterval(cfg.Interval),
			report.WithRequestTimeout(cfg.RequestTimeout),
			report.WithTargets(cfg.Targets),
		)
	}, nil
}

func ProvideDispatcherFor(provider DispatcherConfigProvider, provideEstimatorFn estimator.ProvideFn, db *database.DB) (dispatcher.ProvideFn, error) {
	cfg := provider.DispatcherConfig()
	return func(notifier report.Manager, shutdownCh chan<- error) (dispatcher.Manager, error) {
		return dispatcher.New(
			db,
			provideEstimatorFn,
			notifier,
			shutdownCh,
			dispatcher.WithRebuildDBTime(cfg.RebuildDBTime),
			dispatcher.WithMaxItemsStored(cfg.MaxItemsStored),
			dispatcher.WithMaxStorageTime(cfg.MaxStorageTime),
			dispatcher.WithSkipItems(cfg.SkipItems),
			dispatcher.WithDBFlushSize(cfg.DBFlushSize),
			dispatcher.WithDBFlushTime(cfg.DBFlushTime),
		)
	}, nil
}

func ProvideEstimatorFor(cfg *estimator.Config) (estimator.ProvideFn, error) {
	switch cfg.EstimatorType() {
	case estimator.AlgTypeKNN:
		return func() (estimator.Estimator, error) {
			c, err := knn.New(knn.WithNeighbors(cfg.Neighbors))
			if err != nil {
				return nil, fmt.Errorf("unable create knn instance: %v", err)
			}
			return c, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown estimator type: %s", cfg.EstimatorType())
	}
}
