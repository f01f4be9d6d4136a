// Package genfile is the append-only generation file: a sequence of text
// records, each a formatted candidate prefixed with its byte length as a
// 4-byte big-endian integer. There is no header and no checksum; a record's
// identity is its offset.
package genfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// Mode selects how a file is opened.
type Mode int

const (
	// ReadOnly opens an existing file for reading.
	ReadOnly Mode = iota
	// WriteOnly creates or truncates the file for appending records.
	WriteOnly
	// ReadWrite opens or creates the file; writes append, reads start at
	// the beginning.
	ReadWrite
)

func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "read"
	case WriteOnly:
		return "write"
	case ReadWrite:
		return "readwrite"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

const headerSize = 4

var (
	// ErrEndOfData is returned by reads at the end of the file, including
	// when the last record is incomplete. It is expected, not a failure.
	ErrEndOfData = errors.New("genfile: end of data")
	// ErrIO wraps every operating-system error.
	ErrIO = errors.New("genfile: i/o failure")
	// ErrClosed is returned by operations on a closed file.
	ErrClosed = errors.New("genfile: file closed")
	// ErrMode is returned by a read on a write-only file or a write on a
	// read-only one.
	ErrMode = errors.New("genfile: operation not allowed in this mode")
)

// File is an open generation file. It is safe for concurrent use, though
// the read cursor is shared.
type File struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	mode   Mode
	cursor int64
	end    int64
}

// Open opens path in the given mode.
func Open(path string, mode Mode) (*File, error) {
	var flag int
	switch mode {
	case ReadOnly:
		flag = os.O_RDONLY
	case WriteOnly:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	default:
		return nil, fmt.Errorf("genfile: unknown mode %v", mode)
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}
	return &File{f: f, path: path, mode: mode, end: info.Size()}, nil
}

// Path returns the file path.
func (g *File) Path() string { return g.path }

// Write appends one record and returns its offset.
func (g *File) Write(text string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.f == nil {
		return 0, ErrClosed
	}
	if g.mode == ReadOnly {
		return 0, fmt.Errorf("%w: write on %s file", ErrMode, g.mode)
	}
	if uint64(len(text)) > math.MaxUint32 {
		return 0, fmt.Errorf("genfile: record of %d bytes too large", len(text))
	}
	buf := make([]byte, headerSize+len(text))
	binary.BigEndian.PutUint32(buf, uint32(len(text)))
	copy(buf[headerSize:], text)

	offset := g.end
	n, err := g.f.WriteAt(buf, offset)
	// a partial write still moves the end, leaving a truncated record
	g.end += int64(n)
	if err != nil {
		return 0, fmt.Errorf("%w: write %s at %d: %w", ErrIO, g.path, offset, err)
	}
	return offset, nil
}

// Read returns the record at the cursor and advances past it.
func (g *File) Read() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.f == nil {
		return "", ErrClosed
	}
	if g.mode == WriteOnly {
		return "", fmt.Errorf("%w: read on %s file", ErrMode, g.mode)
	}

	var header [headerSize]byte
	if err := g.readFull(header[:], g.cursor); err != nil {
		return "", err
	}
	size := int64(binary.BigEndian.Uint32(header[:]))
	if err := g.ensureAvailable(g.cursor + headerSize + size); err != nil {
		return "", err
	}
	body := make([]byte, size)
	if err := g.readFull(body, g.cursor+headerSize); err != nil {
		return "", err
	}
	g.cursor += headerSize + size
	return string(body), nil
}

// ensureAvailable returns ErrEndOfData unless the file extends to end. The
// size is re-read when another writer may have appended since Open.
func (g *File) ensureAvailable(end int64) error {
	if end <= g.end {
		return nil
	}
	info, err := g.f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrIO, g.path, err)
	}
	if info.Size() > g.end {
		g.end = info.Size()
	}
	if end > g.end {
		return ErrEndOfData
	}
	return nil
}

// readFull maps a short read to ErrEndOfData.
func (g *File) readFull(buf []byte, off int64) error {
	n, err := g.f.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return ErrEndOfData
	}
	return fmt.Errorf("%w: read %s at %d: %w", ErrIO, g.path, off, err)
}

// ReadN reads up to n records. It returns the records read so far together
// with ErrEndOfData when the file ends first.
func (g *File) ReadN(n int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rec, err := g.Read()
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Seek moves the read cursor to offset, which must be an offset returned by
// Write or Offset.
func (g *File) Seek(offset int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.f == nil {
		return ErrClosed
	}
	if offset < 0 {
		return fmt.Errorf("genfile: negative offset %d", offset)
	}
	g.cursor = offset
	return nil
}

// Offset returns the read cursor.
func (g *File) Offset() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursor
}

// Size returns the current file length in bytes.
func (g *File) Size() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.end
}

// Close syncs written data and closes the file. Closing twice returns
// ErrClosed.
func (g *File) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.f == nil {
		return ErrClosed
	}
	var syncErr error
	if g.mode != ReadOnly {
		syncErr = g.f.Sync()
	}
	err := g.f.Close()
	g.f = nil
	if syncErr != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIO, g.path, syncErr)
	}
	if err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, g.path, err)
	}
	return nil
}
