package ingest

import (
	"encoding/json"
	"time"
)

type Config struct {
	Targets              Targets       `envconfig:"KNC_INGEST_TARGET_URLS"`
	MaxConcurrentRequest int           `envconfig:"KNC_INGEST_MAX_CONCURRENT_REQUEST" default:"64"`
	Interval             time.Duration `envconfig:"KNC_INGEST_INTERVAL" default:"1s"`
	// Upper bound of the random delay added to every pull cycle
	Jitter time.Duration `envconfig:"KNC_INGEST_JITTER" default:"0s"`
}

type Targets []Target

func (ts *Targets) Decode(value string) error {
	targets := []Target{}
	if err := json.Unmarshal([]byte(value), &targets); err != nil {
		return err
	}
	*ts = targets
	return nil
}

type Target struct {
	URL      string `json:"url"`
	EntityID string `json:"entityId"`
}
