package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-knc/knc/internal/logging"
	"github.com/go-knc/knc/internal/sample/model"
)

// Scheduler options
type dbSchedulerConfig struct {
	maxItemsStored int
	maxStorageTime time.Duration
	rebuildDBTime  time.Duration
	deps           pullDependencies
}

func newDBScheduler(config dbSchedulerConfig) *dbScheduler {
	return &dbScheduler{opts: config}
}

// The scheduler is responsible for deleting old data from the DB.
// It can maintain the required amount of data in the DB or delete old data
// depending on the configuration.
type dbScheduler struct {
	opts dbSchedulerConfig
}

// processOutdatedSamples retrieves all samples for the specified entity,
// filters, leaving the outdated ones, and performs bulk deletion.
func (s *dbScheduler) processOutdatedSamples(
	entityID string,
	fetchFn fetchSamplesByEntityFn,
	deleteFn deleteSamplesFn,
) error {
	samples, err := fetchFn(entityID, func(smpl model.Sample) bool {
		// only processed samples with a creation date older than specified in the settings
		return smpl.Status == model.StatusProcessed && time.Since(smpl.CreatedAt) > s.opts.maxStorageTime
	})

	if err != nil {
		return fmt.Errorf("unable find samples by entity %s: %v", entityID, err)
	}

	if err := deleteFn(context.Background(), samples); err != nil {
		return fmt.Errorf("unable delete outdated samples entity %s: %v", entityID, err)
	}
	return nil
}

// processOverSizeSamples retrieves all samples for the specified entity,
// sorts by date added, and deletes the oldest ones.
func (s *dbScheduler) processOverSizeSamples(
	entityID string,
	fetchFn fetchSamplesByEntityFn,
	deleteFn deleteSamplesFn,
) error {
	samples, err := fetchFn(entityID, func(smpl model.Sample) bool {
		return smpl.Status == model.StatusProcessed // only the processed values
	})

	if err != nil {
		return fmt.Errorf("unable find samples by entity %s: %v", entityID, err)
	}

	// the filter can return fewer samples than the bucket count suggested
	if len(samples) <= s.opts.maxItemsStored {
		return nil
	}

	// This can be a costly operation for large values.
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt.UnixNano() < samples[j].CreatedAt.UnixNano()
	})

	// Deleting a slice from the first n sorted samples
	if err := deleteFn(context.Background(), samples[:len(samples)-s.opts.maxItemsStored]); err != nil {
		return fmt.Errorf("unable delete resizable samples entity %s: %v", entityID, err)
	}
	return nil
}

// rebuildOutdated gets all entity keys and checks for outdated samples
// for each entity
func (s *dbScheduler) rebuildOutdated() error {
	keys, err := s.opts.deps.fetchKeys()
	if err != nil {
		return fmt.Errorf("unable to fetch sample keys: %v", err)
	}
	for i := range keys {
		if err := s.processOutdatedSamples(keys[i], s.opts.deps.fetchSamplesByEntity, s.opts.deps.deleteSamples); err != nil {
			return fmt.Errorf("unable process samples: %v", err)
		}
	}
	return nil
}

// rebuildSize gets all entity keys and checks the number of stored
// elements for each entity
func (s *dbScheduler) rebuildSize() error {
	keys, err := s.opts.deps.fetchKeys()
	if err != nil {
		return fmt.Errorf("unable fetch keys: %v", err)
	}
	for i := range keys {
		length, err := s.opts.deps.countByEntity(keys[i])
		if err != nil {
			return fmt.Errorf("unable count by entity %s: %v", keys[i], err)
		}
		if length > s.opts.maxItemsStored {
			if err := s.processOverSizeSamples(keys[i], s.opts.deps.fetchSamplesByEntity, s.opts.deps.deleteSamples); err != nil {
				return fmt.Errorf("unable process samples: %v", err)
			}
		}
	}

	return nil
}

// Scheduler for running data cleanup functions in the DB
func (s *dbScheduler) schedule(ctx context.Context) {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(s.opts.rebuildDBTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.opts.maxItemsStored > 0 {
				if err := s.rebuildSize(); err != nil {
					logger.Errorf("unable db rebuild size: %v", err)
				}
			}
			if s.opts.maxStorageTime > 0 {
				if err := s.rebuildOutdated(); err != nil {
					logger.Errorf("unable db rebuild outdated: %v", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
