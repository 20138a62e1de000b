package model

import (
	"time"

	"github.com/google/uuid"
)

// SplitScore is the accuracy of one cross-validation split: the model
// is fitted on the train month and scored on the following test month.
type SplitScore struct {
	TrainMonth int     `json:"trainMonth"`
	TrainYear  int     `json:"trainYear"`
	TestMonth  int     `json:"testMonth"`
	TestYear   int     `json:"testYear"`
	Accuracy   float64 `json:"accuracy"`
}

func NewReport(entityID string, splits []SplitScore, samples int) Report {
	var mean float64
	for i := range splits {
		mean += splits[i].Accuracy
	}
	if len(splits) > 0 {
		mean /= float64(len(splits))
	}
	return Report{
		ID:           uuid.New(),
		EntityID:     entityID,
		Splits:       splits,
		MeanAccuracy: mean,
		Samples:      samples,
		CreatedAt:    time.Now(),
	}
}

type Report struct {
	ID           uuid.UUID    `json:"id"`
	EntityID     string       `json:"entityId"`
	Splits       []SplitScore `json:"splits"`
	MeanAccuracy float64      `json:"meanAccuracy"`
	Samples      int          `json:"samples"`
	CreatedAt    time.Time    `json:"createdAt"`
}
