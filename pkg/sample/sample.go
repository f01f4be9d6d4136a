// Package sample holds the training data the engine fits: paired x and y
// values, read from CSV or sampled from a formula.
package sample

import (
	"errors"
	"fmt"
	"math"

	"github.com/wildfunctions/genetix/pkg/expr"
)

// ErrInvalidInput reports unusable training data.
var ErrInvalidInput = errors.New("invalid input")

// Sample is a training set of points (X[i], Y[i]).
type Sample struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// New returns a validated sample.
func New(xs, ys []float64) (Sample, error) {
	s := Sample{X: xs, Y: ys}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// Validate checks that X and Y have equal, non-zero length and only finite
// values.
func (s Sample) Validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("%w: %d x values but %d y values", ErrInvalidInput, len(s.X), len(s.Y))
	}
	if len(s.X) == 0 {
		return fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			return fmt.Errorf("%w: point %d (%v, %v) is not finite", ErrInvalidInput, i, s.X[i], s.Y[i])
		}
	}
	return nil
}

// Len returns the number of points.
func (s Sample) Len() int { return len(s.X) }

// FromFormula samples formula at n evenly spaced points in [from, to].
// Points where the formula is not finite are skipped.
func FromFormula(formula string, from, to float64, n int) (Sample, error) {
	if n < 1 {
		return Sample{}, fmt.Errorf("%w: need at least one point, got %d", ErrInvalidInput, n)
	}
	if !finite(from) || !finite(to) || to < from {
		return Sample{}, fmt.Errorf("%w: bad range [%v, %v]", ErrInvalidInput, from, to)
	}
	f, err := expr.Compile(formula)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	var s Sample
	for i := 0; i < n; i++ {
		x := from
		if n > 1 {
			x = from + (to-from)*float64(i)/float64(n-1)
		}
		y, err := f(x)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: evaluate %q at %v: %w", ErrInvalidInput, formula, x, err)
		}
		if !finite(y) {
			continue
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
