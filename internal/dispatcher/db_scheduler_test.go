package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-knc/knc/internal/geom"
	sampleDb "github.com/go-knc/knc/internal/sample/database"
	"github.com/go-knc/knc/internal/sample/model"
)

func processedSample(entityID string, createdAt time.Time) model.Sample {
	smpl := model.NewSample(entityID, geom.Point{1, 1, 1, 1}, 0, createdAt, "test")
	smpl.Status = model.StatusProcessed
	return smpl
}

func TestProcessOverSizeSamples(t *testing.T) {
	tests := []struct {
		name           string
		maxItemsStored int
		expectedErr    error
		expectedLen    int
		batch          []model.Sample
	}{
		{
			name:           "positive_process_over_size_samples",
			maxItemsStored: 3,
			batch: []model.Sample{
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
			},
			expectedLen: 3,
			expectedErr: nil,
		},
		{
			name:           "negative_process_over_size_samples",
			maxItemsStored: 3,
			batch: []model.Sample{
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
			},
			expectedLen: 3,
			expectedErr: errors.New("test error"),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			scheduler := newDBScheduler(dbSchedulerConfig{maxItemsStored: test.maxItemsStored})
			err := scheduler.processOverSizeSamples(
				"test-samples",
				func(s string, fn sampleDb.FilterFn) ([]model.Sample, error) {
					return test.batch, test.expectedErr
				},
				func(ctx context.Context, samples []model.Sample) error {
					test.batch = test.batch[0:test.maxItemsStored]
					return test.expectedErr
				},
			)
			if test.expectedErr != nil && err == nil {
				t.Errorf(
					"calling the processOverSizeSamples method, err got: %v, expected: %v",
					err,
					test.expectedErr,
				)
			}
			if err == nil && len(test.batch) != test.expectedLen {
				t.Errorf(
					"calling the processOverSizeSamples method, the length of data got: %v, expected: %v",
					len(test.batch),
					test.expectedLen,
				)
			}
		})
	}
}

func TestProcessOverSizeSamplesUnderLimit(t *testing.T) {
	deleted := -1
	scheduler := newDBScheduler(dbSchedulerConfig{maxItemsStored: 3})
	err := scheduler.processOverSizeSamples(
		"test-samples",
		func(s string, fn sampleDb.FilterFn) ([]model.Sample, error) {
			// fewer processed samples than the configured maximum
			return []model.Sample{
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
			}, nil
		},
		func(ctx context.Context, samples []model.Sample) error {
			deleted = len(samples)
			return nil
		},
	)
	if err != nil {
		t.Errorf("calling the processOverSizeSamples method, err got: %v, expected: %v", err, nil)
	}
	if deleted != -1 {
		t.Errorf(
			"calling the processOverSizeSamples method under the limit, deleted got: %v, expected no deletion",
			deleted,
		)
	}
}

func TestProcessOutdatedSamples(t *testing.T) {
	tests := []struct {
		name           string
		maxStorageTime time.Duration
		batch          []model.Sample
		expectedDel    int
	}{
		{
			name:           "positive_process_outdated_samples",
			maxStorageTime: time.Hour,
			batch: []model.Sample{
				processedSample("test-data", time.Now().Add(-2*time.Hour)),
				processedSample("test-data", time.Now().Add(-3*time.Hour)),
				processedSample("test-data", time.Now()),
			},
			expectedDel: 2,
		},
		{
			name:           "positive_process_outdated_samples",
			maxStorageTime: time.Hour,
			batch: []model.Sample{
				processedSample("test-data", time.Now()),
			},
			expectedDel: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var deleted int
			scheduler := newDBScheduler(dbSchedulerConfig{maxStorageTime: test.maxStorageTime})
			err := scheduler.processOutdatedSamples(
				"test-samples",
				func(s string, fn sampleDb.FilterFn) ([]model.Sample, error) {
					var filtered []model.Sample
					for _, smpl := range test.batch {
						if fn(smpl) {
							filtered = append(filtered, smpl)
						}
					}
					return filtered, nil
				},
				func(ctx context.Context, samples []model.Sample) error {
					deleted = len(samples)
					return nil
				},
			)
			if err != nil {
				t.Errorf("calling the processOutdatedSamples method, err got: %v, expected: %v", err, nil)
			}
			if deleted != test.expectedDel {
				t.Errorf(
					"calling the processOutdatedSamples method, the number of deleted samples got: %v, expected: %v",
					deleted,
					test.expectedDel,
				)
			}
		})
	}
}
