package dispatcher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-knc/knc/internal/geom"
	"github.com/go-knc/knc/internal/sample/model"
)

func TestDbTxExecutorFlusher(t *testing.T) {
	tests := []struct {
		name           string
		expectedErr    error
		expectedLen    int
		expectedBufLen int
		waitingTime    time.Duration
		batch          []model.Sample
	}{
		{
			name:        "positive_flusher",
			waitingTime: 1 * time.Second,
			batch: []model.Sample{
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
			},
			expectedLen:    5,
			expectedBufLen: 0,
			expectedErr:    nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			length := 0
			bit := int64(0)
			shutdownCh := make(chan error, 1)
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				flushTime: 1 * time.Second,
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						if atomic.LoadInt64(&bit) == 0 {
							length = len(samples)
							atomic.StoreInt64(&bit, 1)
						}
						return nil
					},
				},
			}, shutdownCh)
			ctx, cancel := context.WithCancel(context.TODO())
			txExecutor.buf = test.batch
			go txExecutor.flusher(ctx)

			time.Sleep(test.waitingTime * 2)
			cancel()
			<-shutdownCh

			if length != test.expectedLen {
				t.Errorf(
					"calling the flusher method, the length of the inserted data got: %v, expected: %v",
					length,
					test.expectedLen,
				)
			}

			if len(txExecutor.buf) != test.expectedBufLen {
				t.Errorf(
					"calling the flusher method, the length of buffer got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedBufLen,
				)
			}
		})
	}
}

func TestDbTxExecutorAppend(t *testing.T) {
	tests := []struct {
		name        string
		items       []model.Sample
		expectedLen int
	}{
		{
			name: "positive_append",
			items: []model.Sample{
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
			},
			expectedLen: 1,
		},
		{
			name: "positive_append",
			items: []model.Sample{
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 1, time.Now(), "test"),
			},
			expectedLen: 2,
		},
		{
			name: "positive_append",
			items: []model.Sample{
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 1, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
			},
			expectedLen: 3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				flushSize: 100,
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						return nil
					},
				},
			}, make(chan error, 1))
			for _, item := range test.items {
				txExecutor.append(context.Background(), item)
			}

			if len(txExecutor.buf) != test.expectedLen {
				t.Errorf(
					"calling the append method, the length of the inserted data got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedLen,
				)
			}
		})
	}
}

func TestDbTxExecutorBulkAppend(t *testing.T) {
	tests := []struct {
		name           string
		expectedLen    int
		expectedBufLen int
		buf            []model.Sample
	}{
		{
			name: "positive_bulk_append",
			buf: []model.Sample{
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
			},
			expectedLen:    5,
			expectedBufLen: 0,
		},
		{
			name:           "negative_bulk_append",
			buf:            []model.Sample{},
			expectedLen:    0,
			expectedBufLen: 0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			length := 0
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						length = len(samples)
						return nil
					},
				},
			}, make(chan error, 1))
			txExecutor.buf = test.buf
			txExecutor.bulkAppend(context.Background())

			if length != test.expectedLen {
				t.Errorf(
					"calling the bulkAppend method, the length of the inserted data got: %v, expected: %v",
					length,
					test.expectedLen,
				)
			}

			if len(txExecutor.buf) != test.expectedBufLen {
				t.Errorf(
					"calling the bulkAppend method, the length of buffer got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedBufLen,
				)
			}
		})
	}
}

func TestDbTxExecutorShutdown(t *testing.T) {
	tests := []struct {
		name           string
		expectedLen    int
		expectedBufLen int
		expectedErr    error
		buf            []model.Sample
	}{
		{
			name: "positive_shutdown",
			buf: []model.Sample{
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
				model.NewSample("test-data", geom.Point{1, 1, 1, 1}, 0, time.Now(), "test"),
			},
			expectedLen:    5,
			expectedBufLen: 0,
			expectedErr:    nil,
		},
		{
			name:           "negative_shutdown",
			buf:            []model.Sample{},
			expectedLen:    0,
			expectedBufLen: 0,
			expectedErr:    errors.New("test"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			length := 0
			txExecutor := newDBTxExecutor(dbTxExecutorOptions{
				deps: pullDependencies{
					appendSamples: func(ctx context.Context, samples []model.Sample) error {
						length = len(samples)
						if test.expectedErr != nil {
							return test.expectedErr
						}
						return nil
					},
				},
			}, make(chan error, 1))
			txExecutor.buf = test.buf
			err := txExecutor.shutdown()

			if test.expectedErr == nil && err != nil {
				t.Errorf("calling the shutdown method, err got: %v, expected: %v", err, test.expectedErr)
			}

			if length != test.expectedLen {
				t.Errorf(
					"calling the shutdown method, the length of the inserted data got: %v, expected: %v",
					length,
					test.expectedLen,
				)
			}

			if test.expectedErr == nil && len(txExecutor.buf) != test.expectedBufLen {
				t.Errorf(
					"calling the shutdown method, the length of buffer got: %v, expected: %v",
					len(txExecutor.buf),
					test.expectedBufLen,
				)
			}
		})
	}
}
