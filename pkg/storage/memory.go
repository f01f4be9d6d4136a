package storage

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunRecord
	generations map[string][]GenerationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunRecord)
	s.generations = make(map[string][]GenerationRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return RunRecord{}, false, ErrNotInitialized
	}

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sortRuns(out)
	return out, nil
}

func (s *MemoryStore) AppendGeneration(_ context.Context, gen GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}

	s.generations[gen.RunID] = append(s.generations[gen.RunID], gen)
	return nil
}

func (s *MemoryStore) ListGenerations(_ context.Context, runID string) ([]GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	out := append([]GenerationRecord(nil), s.generations[runID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// sortRuns orders runs by start time, then ID.
func sortRuns(runs []RunRecord) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.Before(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
