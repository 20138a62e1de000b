package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-knc/knc/internal/buildinfo"
	"github.com/go-knc/knc/internal/classify"
	"github.com/go-knc/knc/internal/collect"
	"github.com/go-knc/knc/internal/evaluate"
	"github.com/go-knc/knc/internal/knc"
	"github.com/go-knc/knc/internal/logging"
	"github.com/go-knc/knc/internal/metrics"
	"github.com/go-knc/knc/internal/server"
	"github.com/go-knc/knc/internal/setup"
	"github.com/go-knc/knc/internal/shutdown"
)

func main() {
	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	logger.Infof("%s build %s (%s)", buildinfo.Info.Name(), buildinfo.Info.Tag(), buildinfo.Info.Time())
	go http.ListenAndServe("0.0.0.0:8080", nil)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}
	defer done()
}

func run(ctx context.Context, cancel func()) error {
	var (
		shutdownCh    chan error
		shutdownCount = 2
	)
	config := knc.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}

	if config.SvcModeType == knc.SvcModeTypeIngest {
		shutdownCount++
	}

	shutdownCh = make(chan error, shutdownCount)
	notifier, err := env.ProvideNotifier()(shutdownCh)
	if err != nil {
		return fmt.Errorf("notifier provider function error: %w", err)
	}
	disp, err := env.ProvideDispatcher()(notifier, shutdownCh)
	if err != nil {
		return fmt.Errorf("dispatcher provider function error: %w", err)
	}

	if config.SvcModeType == knc.SvcModeTypeIngest {
		puller, err := env.ProvideIngest()(disp, shutdownCh)
		if err != nil {
			return fmt.Errorf("ingest provider function error: %w", err)
		}
		if err := puller.Run(ctx); err != nil {
			return fmt.Errorf("ingest.Run: %w", err)
		}
	} else if err := disp.Run(ctx); err != nil {
		return fmt.Errorf("dispatcher.Run: %w", err)
	}

	srv, err := server.New(config.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	mux := http.NewServeMux()

	classifyHandler, err := classify.NewHandler(&config.Classify, disp)
	if err != nil {
		return fmt.Errorf("classify.NewHandler: %w", err)
	}
	mux.Handle("/classify", classifyHandler)

	evaluateHandler, err := evaluate.NewHandler(&config.Evaluate, disp)
	if err != nil {
		return fmt.Errorf("evaluate.NewHandler: %w", err)
	}
	mux.Handle("/evaluate", evaluateHandler)

	mux.Handle("/health", server.HandleHealth(ctx))

	exporter, err := metrics.NewExporter()
	if err != nil {
		return fmt.Errorf("metrics.NewExporter: %w", err)
	}
	mux.Handle("/metrics", exporter)

	if config.SvcModeType == knc.SvcModeTypeCollect {
		collectHandler, err := collect.NewHandler(&config.Collect, disp)
		if err != nil {
			return fmt.Errorf("collect.NewHandler: %w", err)
		}
		mux.Handle("/collect", collectHandler)
	}

	go func() {
		if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
			cancel()
		}
	}()

	return <-shutdownCh
}
