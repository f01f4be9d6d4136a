package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const (
	runPrefix = "run/"
	genPrefix = "gen/"
)

// BadgerStore keeps runs in an embedded BadgerDB. An empty path opens an
// in-memory database.
type BadgerStore struct {
	path   string
	logger *slog.Logger

	mu sync.RWMutex
	db *badger.DB
}

func NewBadgerStore(path string, logger *slog.Logger) *BadgerStore {
	return &BadgerStore{path: path, logger: logger}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (s *BadgerStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	var opts badger.Options
	if s.path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(s.path, 0o750); err != nil {
			return fmt.Errorf("create badger directory %s: %w", s.path, err)
		}
		opts = badger.DefaultOptions(s.path).WithSyncWrites(true)
	}
	if s.logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: s.logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger database: %w", err)
	}
	s.db = db
	return nil
}

func (s *BadgerStore) SaveRun(_ context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := encodeRun(run)
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runPrefix+run.ID), payload)
	})
}

func (s *BadgerStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	var run RunRecord
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			run, err = decodeRun(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, true, nil
}

func (s *BadgerStore) ListRuns(_ context.Context) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var out []RunRecord
	err = db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(runPrefix), func(val []byte) error {
			run, err := decodeRun(val)
			if err != nil {
				return err
			}
			out = append(out, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortRuns(out)
	return out, nil
}

// generationKey orders records of a run by generation, then by sequence
// number so repeated generations are all kept.
func generationKey(runID string, gen int, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s/%010d/%016x", genPrefix, runID, gen, seq))
}

func (s *BadgerStore) AppendGeneration(_ context.Context, gen GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := encodeGeneration(gen)
	if err != nil {
		return err
	}
	seq, err := db.GetSequence([]byte("seq/"+gen.RunID), 16)
	if err != nil {
		return err
	}
	defer seq.Release()
	n, err := seq.Next()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(generationKey(gen.RunID, gen.Generation, n), payload)
	})
}

func (s *BadgerStore) ListGenerations(_ context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var out []GenerationRecord
	err = db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(genPrefix+runID+"/"), func(val []byte) error {
			g, err := decodeGeneration(val)
			if err != nil {
				return err
			}
			out = append(out, g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

func scanPrefix(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BadgerStore) getDB() (*badger.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}
