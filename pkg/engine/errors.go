package engine

import (
	"errors"

	"github.com/wildfunctions/genetix/pkg/sample"
)

var (
	// ErrInvalidConfiguration reports a config rejected before the run starts.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidInput reports unusable training data.
	ErrInvalidInput = sample.ErrInvalidInput
	// ErrNotTerminated is returned by result accessors before the run ends.
	ErrNotTerminated = errors.New("run has not terminated")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("run already started")
	// ErrNotStarted is returned by Wait before Start.
	ErrNotStarted = errors.New("run not started")
)
