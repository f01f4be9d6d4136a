// Package storage archives finished runs and their per-generation summaries
// so that past searches can be listed and compared.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotInitialized is returned by stores used before Init.
var ErrNotInitialized = errors.New("storage: store not initialized")

// Store persists run summaries.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]RunRecord, error)
	AppendGeneration(ctx context.Context, gen GenerationRecord) error
	ListGenerations(ctx context.Context, runID string) ([]GenerationRecord, error)
	Close() error
}

// RunRecord summarizes one engine run. SaveRun with an existing ID
// replaces the record.
type RunRecord struct {
	ID          string    `json:"id"`
	Model       string    `json:"model"`
	Pool        string    `json:"pool"`
	Seed        uint64    `json:"seed"`
	State       string    `json:"state"`
	Generations int       `json:"generations"`
	Created     int64     `json:"created"`
	BestFitness Score     `json:"best_fitness"`
	Best        []string  `json:"best,omitempty"`
	Config      []byte    `json:"config,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// GenerationRecord is the progress of one generation.
type GenerationRecord struct {
	RunID       string `json:"run_id"`
	Generation  int    `json:"generation"`
	Created     int64  `json:"created"`
	BestFitness Score  `json:"best_fitness"`
	MeanFitness Score  `json:"mean_fitness"`
	StdDev      Score  `json:"std_dev"`
	Best        string `json:"best"`
}
