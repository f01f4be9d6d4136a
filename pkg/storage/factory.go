package storage

import (
	"fmt"
	"log/slog"
)

// Kinds lists the backends NewStore accepts.
var Kinds = []string{"memory", "sqlite", "badger"}

// NewStore returns an uninitialized store of the given kind. path is the
// SQLite file or the Badger directory; it is ignored for memory.
func NewStore(kind, path string, logger *slog.Logger) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	case "badger":
		return NewBadgerStore(path, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
