package sample

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	s, err := New([]float64{0, 1}, []float64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = New([]float64{0, 1}, []float64{2})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = New(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = New([]float64{math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = New([]float64{1}, []float64{math.Inf(1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFromFormula(t *testing.T) {
	s, err := FromFormula("x^2", 0, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, s.X)
	assert.Equal(t, []float64{0, 1, 4, 9}, s.Y)

	// ln is NaN at and below zero; those points are dropped.
	s, err = FromFormula("ln(x)", -1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, s.X)

	single, err := FromFormula("2*x", 5, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, single.Y)

	_, err = FromFormula("x +* 1", 0, 1, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = FromFormula("x", 1, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = FromFormula("x", 0, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = FromFormula("sqrt(x)", -3, -1, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCSVRoundTrip(t *testing.T) {
	s, err := New([]float64{0, 0.5, -1e-9}, []float64{1, 2.25, 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.True(t, strings.HasPrefix(buf.String(), "x,y\n"))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestReadCSV(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("0, 0\n1, 1\n\n2, 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, s.X)

	_, err = ReadCSV(strings.NewReader("x,y\n1,2\nfoo,3\n"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ReadCSV(strings.NewReader("1\n"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ReadCSV(strings.NewReader("x,y\n"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
