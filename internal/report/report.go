// Package report delivers cross-validation reports to the configured
// HTTP targets. Undelivered reports survive a restart through bolt
// storage.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-knc/knc/internal/database"
	"github.com/go-knc/knc/internal/httputil"
	"github.com/go-knc/knc/internal/logging"
	reportDb "github.com/go-knc/knc/internal/report/database"
	"github.com/go-knc/knc/internal/report/model"
	"github.com/go-knc/knc/pkg/rworker"
)

type ProvideFn = func(chan<- error) (Manager, error)

const UserAgent = "KNC/0.1"

type Options struct {
	maxConcurrentRequest int
	requestTimeout       time.Duration
	reportInterval       time.Duration
	targets              Targets
}

type Option func(*manager)

func WithMaxConcurrentRequest(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentRequest = n
	}
}

func WithReportInterval(t time.Duration) Option {
	return func(o *manager) {
		o.opts.reportInterval = t
	}
}

func WithRequestTimeout(t time.Duration) Option {
	return func(o *manager) {
		o.opts.requestTimeout = t
	}
}

func WithTargets(m Targets) Option {
	return func(o *manager) {
		o.opts.targets = m
	}
}

func New(db *database.DB, shutdownCh chan<- error, opts ...Option) (*manager, error) {
	m := &manager{
		reportDb:   reportDb.New(db),
		shutdownCh: shutdownCh,
		clients:    map[string]*http.Client{},
		reports:    map[string][]model.Report{},
	}
	for _, f := range opts {
		f(m)
	}
	if m.opts.maxConcurrentRequest == 0 {
		m.opts.maxConcurrentRequest = 1
	}
	if m.opts.reportInterval == 0 {
		m.opts.reportInterval = 5 * time.Second
	}
	if m.opts.requestTimeout == 0 {
		m.opts.requestTimeout = 10 * time.Second
	}
	for _, target := range m.opts.targets {
		if _, ok := m.clients[target.EntityID]; !ok {
			client, err := httputil.NewClientFromConfig(target.HTTPConfig, true)
			if err != nil {
				return nil, fmt.Errorf("unable create client for entity %s: %v", target.EntityID, err)
			}
			m.clients[target.EntityID] = client
		}
	}
	return m, nil
}

type Notifier interface {
	Notify(reports ...model.Report)
}

type Manager interface {
	Notifier
	Run(context.Context) error
	Stop()
}

type manager struct {
	mtx        sync.RWMutex
	opts       Options
	reportDb   *reportDb.DB
	shutdownCh chan<- error
	clients    map[string]*http.Client
	reports    map[string][]model.Report
	cancel     func()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.notifier(ctx)
	if err := m.initialize(ctx); err != nil {
		return fmt.Errorf("can not start report manager: %v", err)
	}
	return nil
}

func (m *manager) Stop() {
	m.cancel()
}

// Notify queues reports for delivery
func (m *manager) Notify(reports ...model.Report) {
	m.mtx.Lock()
	for i := range reports {
		if _, ok := m.reports[reports[i].EntityID]; !ok {
			m.reports[reports[i].EntityID] = []model.Report{}
		}
		m.reports[reports[i].EntityID] = append(m.reports[reports[i].EntityID], reports[i])
	}
	m.mtx.Unlock()
}

// initialize re-queues reports persisted on a previous shutdown
func (m *manager) initialize(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	reports, err := m.reportDb.FindAll(ctx, nil)
	if err != nil {
		logger.Errorf("Error with fetching data from db, %v", err)
	}
	for i := range reports {
		m.Notify(reports[i])
		if err := m.reportDb.Delete(context.Background(), reports[i]); err != nil {
			return fmt.Errorf("unable delete report on initialize: %v", err)
		}
	}
	return nil
}

// shutdown persists the undelivered reports
func (m *manager) shutdown() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, reports := range m.reports {
		for i := range reports {
			if err := m.reportDb.Store(context.Background(), reports[i]); err != nil {
				return fmt.Errorf("report shutdown: unable store report: %v", err)
			}
		}
	}
	return nil
}

func (m *manager) notifier(ctx context.Context) {
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	rateCh := make(chan struct{}, m.opts.maxConcurrentRequest)
	defer close(errCh)
	defer close(rateCh)
	go func() {
		for err := range errCh {
			logger.Errorf("report error: %v", err)
		}
	}()
	defer func() {
		m.shutdownCh <- m.shutdown()
	}()
	wg := sync.WaitGroup{}
	ticker := time.NewTicker(m.opts.reportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		OuterLoop:
			for _, target := range m.opts.targets {
				target := target
				m.mtx.RLock()
				reports := make([]model.Report, len(m.reports[target.EntityID]))
				copy(reports, m.reports[target.EntityID])
				m.mtx.RUnlock()
				if len(reports) == 0 {
					continue OuterLoop
				}
				rworker.Job(&wg, func() error {
					for i := range reports {
						if err := m.reportDb.Store(context.Background(), reports[i]); err != nil {
							return fmt.Errorf("unable store report: %v", err)
						}
					}
					if err := m.do(context.Background(), target, reports); err != nil {
						return fmt.Errorf("report do request error: %v", err)
					}
					for i := range reports {
						if err := m.reportDb.Delete(context.Background(), reports[i]); err != nil {
							return fmt.Errorf("unable delete report: %v", err)
						}
					}
					m.mtx.Lock()
					m.reports[target.EntityID] = m.reports[target.EntityID][:0]
					m.mtx.Unlock()
					return nil
				}, rateCh, errCh)
			}
			wg.Wait()
		case <-ctx.Done():
			return
		}
	}
}

type request struct {
	EntityID string         `json:"entityId"`
	Reports  []model.Report `json:"reports"`
}

func (m *manager) do(ctx context.Context, target Target, reports []model.Report) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.requestTimeout)
	defer cancel()
	body, err := json.Marshal(request{EntityID: target.EntityID, Reports: reports})
	if err != nil {
		return fmt.Errorf("unable encode json data: %w", err)
	}
	link, err := url.Parse(target.URL)
	if err != nil {
		return fmt.Errorf("url parsing error: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", link.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	client, ok := m.clients[target.EntityID]
	if !ok {
		return fmt.Errorf("client for entityID %s not defined", target.EntityID)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request error: %w", err)
	}

	defer resp.Body.Close()

	if _, err := ioutil.ReadAll(resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response was not 200 OK: %s", resp.Status)
	}
	return nil
}
