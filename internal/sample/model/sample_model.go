package model

import (
	"time"

	"github.com/go-knc/knc/internal/geom"
	"github.com/google/uuid"
)

type Status uint8

const (
	StatusNew Status = iota
	StatusProcessed
)

func NewSample(entityID string, vec geom.Point, label float64, createdAt time.Time, extra interface{}) Sample {
	return Sample{
		ID:        uuid.New(),
		EntityID:  entityID,
		Vec:       vec,
		Label:     label,
		Status:    StatusNew,
		CreatedAt: createdAt,
		Extra:     extra,
	}
}

// Sample is one labeled training point of an entity's dataset.
type Sample struct {
	ID        uuid.UUID   `json:"id"`
	EntityID  string      `json:"entityId"`
	Vec       geom.Point  `json:"vector"`
	Label     float64     `json:"label"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	Extra     interface{} `json:"extra"`
}

func (s Sample) IsProcessed() bool {
	return s.Status == StatusProcessed
}

func (s Sample) IsNew() bool {
	return s.Status == StatusNew
}

func (s Sample) Point() geom.Point {
	return s.Vec
}

func (s Sample) Time() time.Time {
	return s.CreatedAt
}
