// Package dispatcher owns the per-entity dataset and model lifecycle:
// it collects labeled samples, keeps bolt storage in sync through a
// batching executor, refits nearest-neighbor models on demand and runs
// monthly cross-validation evaluations.
package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-knc/knc/internal/database"
	"github.com/go-knc/knc/internal/estimator"
	"github.com/go-knc/knc/internal/estimator/monthly"
	"github.com/go-knc/knc/internal/frame"
	"github.com/go-knc/knc/internal/geom"
	"github.com/go-knc/knc/internal/logging"
	"github.com/go-knc/knc/internal/report"
	reportModel "github.com/go-knc/knc/internal/report/model"
	sampleDb "github.com/go-knc/knc/internal/sample/database"
	"github.com/go-knc/knc/internal/sample/model"
	"github.com/go-knc/knc/internal/util"
	"github.com/go-knc/knc/pkg/iqueue"
)

// Contract for returning the Manager instance
type ProvideFn func(report.Manager, chan<- error) (Manager, error)

// Manager defines the behavior of the background service.
type Manager interface {
	CollectClassifier
	Evaluator
	// Start method of the service
	Run(context.Context) error
	// Method for stopping the service
	Stop()
}

// Collector defines the behavior of the service for dataset storage.
type Collector interface {
	// The method accepts labeled samples from outside and queues them
	Collect(in ...model.Sample) error
}

// Classifier defines the behavior of the service for predictions only.
type Classifier interface {
	// The method predicts the class label of the given point
	Classify(entityID string, point geom.Point) (float64, error)
}

// Evaluator runs a monthly cross-validation over an entity's dataset.
type Evaluator interface {
	Evaluate(entityID string) (reportModel.Report, error)
}

// Aggregation interface for Collector and Classifier interfaces
type CollectClassifier interface {
	Collector
	Classifier
}

// Abstractions for getting dependencies
type (
	fetchSamplesFn         func(context.Context, sampleDb.FilterFn) ([]model.Sample, error)
	fetchSamplesByEntityFn func(string, sampleDb.FilterFn) ([]model.Sample, error)
	deleteSamplesFn        func(context.Context, []model.Sample) error
	appendSamplesFn        func(context.Context, []model.Sample) error
	fetchKeysFn            func() ([]string, error)
	countByEntityFn        func(string) (int, error)
)

// General structure for aggregation of dependency pulling functions
type pullDependencies struct {
	fetchSamples         fetchSamplesFn
	fetchSamplesByEntity fetchSamplesByEntityFn
	deleteSamples        deleteSamplesFn
	appendSamples        appendSamplesFn
	fetchKeys            fetchKeysFn
	countByEntity        countByEntityFn
}

type Options struct {
	skipItems      int
	maxItemsStored int
	maxStorageTime time.Duration
	dbFlushTime    time.Duration
	dbFlushSize    int
	rebuildDBTime  time.Duration
	deps           pullDependencies
}

type Option func(*manager)

func WithDBFlushTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.dbFlushTime = t
	}
}

func WithDBFlushSize(n int) Option {
	return func(o *manager) {
		o.opts.dbFlushSize = n
	}
}

func WithRebuildDBTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.rebuildDBTime = t
	}
}

func WithSkipItems(n int) Option {
	return func(o *manager) {
		o.opts.skipItems = n
	}
}

func WithMaxItemsStored(n int) Option {
	return func(o *manager) {
		o.opts.maxItemsStored = n
	}
}

func WithMaxStorageTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.maxStorageTime = t
	}
}

// New return manager
func New(
	db *database.DB,
	provideEstimatorFn estimator.ProvideFn,
	notifier report.Manager,
	shutdownCh chan<- error,
	opts ...Option,
) (*manager, error) {
	if notifier == nil {
		return nil, fmt.Errorf("notifier instance is not created")
	}

	if provideEstimatorFn == nil {
		return nil, fmt.Errorf("estimator provide function is not created")
	}

	d := &manager{
		sampleDB:           sampleDb.New(db),
		collectCh:          make(chan model.Sample, 1),
		queue:              map[string]*iqueue.Queue{},
		shutDownCh:         shutdownCh,
		estimatorProvideFn: provideEstimatorFn,
		models:             map[string]estimator.Model{},
		datasets:           map[string][]model.Sample{},
		stale:              map[string]bool{},
		seen:               map[string]map[[32]byte]struct{}{},
		notifier:           notifier,
	}

	for _, f := range opts {
		f(d)
	}

	// structure containing functions for getting and adding samples
	d.opts.deps = pullDependencies{
		fetchSamples:         d.sampleDB.FindAll,
		fetchSamplesByEntity: d.sampleDB.FindByEntity,
		deleteSamples:        d.sampleDB.DeleteMany,
		appendSamples:        d.sampleDB.AppendMany,
		fetchKeys:            d.sampleDB.Keys,
		countByEntity:        d.sampleDB.CountByEntity,
	}

	d.dbScheduler = newDBScheduler(dbSchedulerConfig{
		deps:           d.opts.deps,
		maxItemsStored: d.opts.maxItemsStored,
		maxStorageTime: d.opts.maxStorageTime,
		rebuildDBTime:  d.opts.rebuildDBTime,
	})

	d.dbTxExecutor = newDBTxExecutor(
		dbTxExecutorOptions{
			deps:      d.opts.deps,
			flushTime: d.opts.dbFlushTime,
			flushSize: d.opts.dbFlushSize,
		},
		shutdownCh,
	)

	return d, nil
}

// The queue management structure. Holds the in-memory datasets, the
// fitted model per entity and the storage maintenance services.
type manager struct {
	mtx sync.RWMutex

	opts Options
	// Main sample storage
	sampleDB *sampleDb.DB
	// The report notification manager
	notifier report.Manager
	// The transaction manager in the store
	dbTxExecutor *dbTxExecutor
	// Managing data in storage
	dbScheduler *dbScheduler

	// New data channel for processing
	collectCh chan model.Sample
	// Per-entity processing queues, owned by the collector goroutine
	queue map[string]*iqueue.Queue
	// Channel to shutdown the application
	shutDownCh chan<- error

	closed bool
	// The factory returns a fresh estimator instance
	estimatorProvideFn estimator.ProvideFn
	// Fitted model per entity, refit lazily when the dataset changes
	models map[string]estimator.Model
	// In-memory dataset per entity, in collection order
	datasets map[string][]model.Sample
	// Entities whose model no longer matches the dataset
	stale map[string]bool
	// Hashes of collected samples per entity, for deduplication
	seen map[string]map[[32]byte]struct{}

	cancelNotifier func()
	cancel         func()
}

// The Run method starts the collection loop, the storage services and
// the report notifier.
func (d *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	c, cancel := context.WithCancel(context.Background())
	d.cancelNotifier = cancel

	go d.collector(ctx)
	go d.dbTxExecutor.flusher(ctx)
	go d.dbScheduler.schedule(ctx)

	// Loading data from storage to memory
	if err := d.bulkLoad(ctx); err != nil {
		return fmt.Errorf("can not start dispatcher manager: %w", err)
	}
	if err := d.notifier.Run(c); err != nil {
		return fmt.Errorf("report.Run: %w", err)
	}

	return nil
}

// Stop the manager
func (d *manager) Stop() {
	d.cancel()
}

// Classify predicts the class label of the given point with the
// entity's current model, refitting it first when the dataset changed.
func (d *manager) Classify(entityID string, point geom.Point) (float64, error) {
	d.mtx.RLock()
	if d.closed {
		d.mtx.RUnlock()
		return 0, fmt.Errorf("error to classify, shutting down")
	}
	d.mtx.RUnlock()

	fitted, err := d.entityModel(entityID)
	if err != nil {
		return 0, err
	}
	labels, err := fitted.Predict([][]float64{point.Points()})
	if err != nil {
		return 0, fmt.Errorf("unable classify point for entity %s: %w", entityID, err)
	}
	return labels[0], nil
}

// Collect adds labeled samples to the processing queue
func (d *manager) Collect(in ...model.Sample) error {
	d.mtx.RLock()
	if d.closed {
		d.mtx.RUnlock()
		return fmt.Errorf("error send to collect, shutting down")
	}
	d.mtx.RUnlock()
	for i := range in {
		d.collectCh <- in[i]
	}
	return nil
}

// Evaluate runs a monthly cross-validation over the entity's dataset:
// for every adjacent pair of calendar months present, a fresh model is
// fitted on the first month and scored on the next. The resulting
// report is handed to the notifier.
func (d *manager) Evaluate(entityID string) (reportModel.Report, error) {
	d.mtx.RLock()
	samples := make([]model.Sample, len(d.datasets[entityID]))
	copy(samples, d.datasets[entityID])
	d.mtx.RUnlock()

	if len(samples) == 0 {
		return reportModel.Report{}, fmt.Errorf("no samples collected for entity %s", entityID)
	}

	x := make([][]float64, len(samples))
	y := make([]float64, len(samples))
	times := make([]time.Time, len(samples))
	for i := range samples {
		x[i] = samples[i].Point().Points()
		y[i] = samples[i].Label
		times[i] = samples[i].Time()
	}

	f, err := frame.New(frame.WithTimeIndex(times))
	if err != nil {
		return reportModel.Report{}, fmt.Errorf("unable build frame for entity %s: %w", entityID, err)
	}

	cv := monthly.New()
	iter, err := cv.Split(f, y, nil)
	if err != nil {
		return reportModel.Report{}, fmt.Errorf("unable split dataset of entity %s: %w", entityID, err)
	}

	var scores []reportModel.SplitScore
	for {
		split, ok := iter.Next()
		if !ok {
			break
		}
		est, err := d.estimatorProvideFn()
		if err != nil {
			return reportModel.Report{}, fmt.Errorf("can not create estimator instance: %w", err)
		}
		fitted, err := est.Fit(pick(x, split.Train), pickLabels(y, split.Train))
		if err != nil {
			return reportModel.Report{}, fmt.Errorf("unable fit split model for entity %s: %w", entityID, err)
		}
		accuracy, err := fitted.Score(pick(x, split.Test), pickLabels(y, split.Test))
		if err != nil {
			return reportModel.Report{}, fmt.Errorf("unable score split model for entity %s: %w", entityID, err)
		}
		trainAt := times[split.Train[0]]
		testAt := times[split.Test[0]]
		scores = append(scores, reportModel.SplitScore{
			TrainMonth: int(trainAt.Month()),
			TrainYear:  trainAt.Year(),
			TestMonth:  int(testAt.Month()),
			TestYear:   testAt.Year(),
			Accuracy:   accuracy,
		})
	}

	rep := reportModel.NewReport(entityID, scores, len(samples))
	d.notifier.Notify(rep)
	return rep, nil
}

// entityModel returns the entity's fitted model, refitting it when the
// dataset has changed since the last fit.
func (d *manager) entityModel(entityID string) (estimator.Model, error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	samples := d.datasets[entityID]
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples collected for entity %s", entityID)
	}
	if len(samples) < d.opts.skipItems {
		return nil, fmt.Errorf(
			"not enough samples for entity %s: got %d, need at least %d",
			entityID, len(samples), d.opts.skipItems,
		)
	}

	fitted, ok := d.models[entityID]
	if ok && !d.stale[entityID] {
		return fitted, nil
	}

	est, err := d.estimatorProvideFn()
	if err != nil {
		return nil, fmt.Errorf("can not create estimator instance: %w", err)
	}
	x := make([][]float64, len(samples))
	y := make([]float64, len(samples))
	for i := range samples {
		x[i] = samples[i].Point().Points()
		y[i] = samples[i].Label
	}
	fitted, err = est.Fit(x, y)
	if err != nil {
		return nil, fmt.Errorf("unable fit model for entity %s: %w", entityID, err)
	}
	d.models[entityID] = fitted
	d.stale[entityID] = false
	return fitted, nil
}

// bulkLoad loading data from storage to memory
func (d *manager) bulkLoad(ctx context.Context) error {
	var newSamples []model.Sample

	data, err := d.opts.deps.fetchSamples(ctx, nil)
	if err != nil {
		return fmt.Errorf("error fetching all samples: %w", err)
	}

	d.mtx.Lock()
	for _, dat := range data {
		// divide samples by the statuses "processed" and "new"
		if dat.IsProcessed() {
			d.appendLocked(dat)
		}
		if dat.IsNew() {
			newSamples = append(newSamples, dat)
		}
	}
	d.mtx.Unlock()

	// samples with the "new" status are sent to the queue for processing
	for i := range newSamples {
		d.collectCh <- newSamples[i]
	}

	return nil
}

const workerMul = 2

func (d *manager) worker(ctx context.Context, queue *iqueue.Queue, num int) {
	for i := 0; i < num; i++ {
		go d.receive(ctx, queue)
	}
}

func (d *manager) receive(ctx context.Context, q *iqueue.Queue) {
	logger := logging.FromContext(ctx)
	for {
		select {
		case recv, ok := <-q.Receive():
			if !ok {
				return
			}
			if err := d.process(ctx, recv.(model.Sample)); err != nil {
				logger.Errorf("unable to process sample: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (d *manager) collector(ctx context.Context) {
	for {
		select {
		case smpl := <-d.collectCh:
			q, ok := d.queue[smpl.EntityID]
			if !ok {
				queue := iqueue.New()
				go queue.Loop()
				d.worker(ctx, queue, runtime.NumCPU()*workerMul)
				d.queue[smpl.EntityID] = queue
				q = queue
			}
			q.Send(smpl)
		case <-ctx.Done():
			d.mtx.Lock()
			d.closed = true
			d.mtx.Unlock()
			d.cancelNotifier()
			return
		}
	}
}

// process records one sample: duplicates are dropped, everything else
// goes to the in-memory dataset and the storage write buffer.
func (d *manager) process(ctx context.Context, smpl model.Sample) error {
	d.mtx.Lock()
	hash := util.HashSample(smpl.Point().Points(), smpl.Label)
	if _, ok := d.seen[smpl.EntityID][hash]; ok {
		d.mtx.Unlock()
		return nil
	}
	smpl.Status = model.StatusProcessed
	d.appendLocked(smpl)
	d.mtx.Unlock()

	d.dbTxExecutor.append(ctx, smpl)
	return nil
}

// appendLocked mutates the dataset maps; the caller holds the lock.
func (d *manager) appendLocked(smpl model.Sample) {
	if _, ok := d.seen[smpl.EntityID]; !ok {
		d.seen[smpl.EntityID] = map[[32]byte]struct{}{}
	}
	d.seen[smpl.EntityID][util.HashSample(smpl.Point().Points(), smpl.Label)] = struct{}{}
	d.datasets[smpl.EntityID] = append(d.datasets[smpl.EntityID], smpl)
	d.stale[smpl.EntityID] = true
}

func pick(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}

func pickLabels(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
