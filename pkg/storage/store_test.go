package storage

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	return map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite":        NewSQLiteStore(filepath.Join(dir, "runs.db")),
		"badger":        NewBadgerStore(filepath.Join(dir, "badger"), nil),
		"badger-memory": NewBadgerStore("", nil),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Init(ctx))
			t.Cleanup(func() { _ = store.Close() })

			_, ok, err := store.GetRun(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			run := RunRecord{
				ID:          "r1",
				Model:       "ga",
				Pool:        "basic",
				Seed:        42,
				State:       "Running",
				BestFitness: Score(math.Inf(1)),
				StartedAt:   start,
			}
			require.NoError(t, store.SaveRun(ctx, run))

			run.State = "Finished"
			run.Generations = 2
			run.BestFitness = 0.25
			run.Best = []string{"(x)^2", "(x * x)"}
			run.FinishedAt = start.Add(time.Second)
			require.NoError(t, store.SaveRun(ctx, run))
			require.NoError(t, store.SaveRun(ctx, RunRecord{ID: "r0", StartedAt: start.Add(-time.Hour)}))

			got, ok, err := store.GetRun(ctx, "r1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Finished", got.State)
			assert.Equal(t, Score(0.25), got.BestFitness)
			assert.Equal(t, run.Best, got.Best)
			assert.True(t, got.FinishedAt.Equal(run.FinishedAt))

			runs, err := store.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "r0", runs[0].ID)
			assert.Equal(t, "r1", runs[1].ID)

			for _, g := range []GenerationRecord{
				{RunID: "r1", Generation: 2, Created: 100, BestFitness: 0.25, MeanFitness: 3, StdDev: 1, Best: "(x)^2"},
				{RunID: "r1", Generation: 1, Created: 50, BestFitness: Score(math.NaN()), MeanFitness: Score(math.Inf(1)), Best: "ln(x)"},
				{RunID: "other", Generation: 1},
			} {
				require.NoError(t, store.AppendGeneration(ctx, g))
			}

			gens, err := store.ListGenerations(ctx, "r1")
			require.NoError(t, err)
			require.Len(t, gens, 2)
			assert.Equal(t, 1, gens[0].Generation)
			assert.True(t, math.IsNaN(float64(gens[0].BestFitness)))
			assert.True(t, math.IsInf(float64(gens[0].MeanFitness), 1))
			assert.Equal(t, "(x)^2", gens[1].Best)
			assert.Equal(t, int64(100), gens[1].Created)
		})
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := store.SaveRun(ctx, RunRecord{ID: "x"})
			assert.ErrorIs(t, err, ErrNotInitialized)
			_, err = store.ListGenerations(ctx, "x")
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestNewStore(t *testing.T) {
	for _, kind := range Kinds {
		s, err := NewStore(kind, filepath.Join(t.TempDir(), "db"), nil)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	_, err := NewStore("postgres", "", nil)
	assert.Error(t, err)
}

func TestScoreJSON(t *testing.T) {
	for _, v := range []float64{0, -1.5, math.Inf(1), math.Inf(-1)} {
		data, err := Score(v).MarshalJSON()
		require.NoError(t, err)
		var s Score
		require.NoError(t, s.UnmarshalJSON(data))
		assert.Equal(t, Score(v), s)
	}
	data, err := Score(math.NaN()).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"NaN"`, string(data))
}
