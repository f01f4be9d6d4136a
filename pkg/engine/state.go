package engine

import (
	"time"
)

// State is the lifecycle stage of a run.
type State int32

const (
	Configured State = iota
	Running
	Finished
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further generations will run.
func (s State) Terminal() bool {
	return s == Finished || s == Cancelled || s == Failed
}

// Progress is a snapshot taken at a generation boundary. Fitness values may
// be NaN when no candidate of the generation evaluated to a finite value.
type Progress struct {
	RunID          string        `json:"run_id"`
	Generation     int           `json:"generation"`
	Created        int64         `json:"created"`
	PopulationSize int           `json:"population_size"`
	BestFitness    float64       `json:"-"`
	MeanFitness    float64       `json:"-"`
	StdDev         float64       `json:"-"`
	Best           string        `json:"best"`
	Elapsed        time.Duration `json:"elapsed"`
}

// Event is delivered on the Events channel. Exactly one event per run has
// Terminal set; it is the last one before the channel closes.
type Event struct {
	Progress Progress
	Terminal bool
	State    State
	Err      error
}
