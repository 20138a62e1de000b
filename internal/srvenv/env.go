// Package srvenv carries the shared service environment assembled at
// startup.
package srvenv

import (
	"context"

	"github.com/go-knc/knc/internal/database"
	"github.com/go-knc/knc/internal/dispatcher"
	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/ingest"
	"github.com/go-knc/knc/internal/report"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	database   *database.DB
	estimator  estimator.ProvideFn
	dispatcher dispatcher.ProvideFn
	notifier   report.ProvideFn
	ingest     ingest.ProvideFn
}

func (s *SrvEnv) ProvideIngest() ingest.ProvideFn {
	return s.ingest
}

func (s *SrvEnv) ProvideNotifier() report.ProvideFn {
	return s.notifier
}

func (s *SrvEnv) ProvideDispatcher() dispatcher.ProvideFn {
	return s.dispatcher
}

func (s *SrvEnv) ProvideEstimator() estimator.ProvideFn {
	return s.estimator
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func WithIngest(fn ingest.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.ingest = fn
		return s
	}
}

func WithNotifier(fn report.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.notifier = fn
		return s
	}
}

func WithDispatcher(fn dispatcher.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.dispatcher = fn
		return s
	}
}

func WithEstimator(fn estimator.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.estimator = fn
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
