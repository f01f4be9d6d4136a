package genfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.dat")
	records := []string{"(x)^2", "((x + 1) * sin(x))", "", "max(x, -2.5)", "ünïcode"}

	w, err := Open(path, WriteOnly)
	require.NoError(t, err)
	var offsets []int64
	for _, r := range records {
		off, err := w.Write(r)
		require.NoError(t, err)
		offsets = append(offsets, off)
	}
	require.NoError(t, w.Close())
	assert.Equal(t, int64(0), offsets[0])
	assert.Equal(t, int64(4+len(records[0])), offsets[1])

	r, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadN(len(records))
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = r.Read()
	assert.ErrorIs(t, err, ErrEndOfData)

	// Seek back to a remembered offset.
	require.NoError(t, r.Seek(offsets[3]))
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, records[3], rec)
	assert.Equal(t, offsets[4], r.Offset())
}

func TestTruncatedTrailingRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.dat")
	w, err := Open(path, WriteOnly)
	require.NoError(t, err)
	_, err = w.Write("(x + 1)")
	require.NoError(t, err)
	_, err = w.Write("((x * x) - 3)")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Chop the last record in half.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-5))

	r, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadN(5)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Equal(t, []string{"(x + 1)"}, got)

	// A header cut short is also end of data.
	require.NoError(t, os.Truncate(path, 2))
	r2, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer r2.Close()
	_, err = r2.Read()
	assert.ErrorIs(t, err, ErrEndOfData)
}

func TestOversizedHeaderIsEndOfData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.dat")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff, 0xff, 'a', 'b', 'c'}, 0o644))

	r, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read()
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Equal(t, int64(0), r.Offset())
}

func TestReaderSeesLaterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.dat")
	w, err := Open(path, WriteOnly)
	require.NoError(t, err)
	defer w.Close()

	r, err := Open(path, ReadOnly)
	require.NoError(t, err)
	defer r.Close()

	_, err = w.Write("sin(x)")
	require.NoError(t, err)
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "sin(x)", rec)
}

func TestReadWriteAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.dat")
	w, err := Open(path, WriteOnly)
	require.NoError(t, err)
	_, err = w.Write("x")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rw, err := Open(path, ReadWrite)
	require.NoError(t, err)
	off, err := rw.Write("(x)^3")
	require.NoError(t, err)
	assert.Equal(t, int64(5), off)

	got, err := rw.ReadN(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "(x)^3"}, got)
	require.NoError(t, rw.Close())

	// WriteOnly truncates.
	w, err = Open(path, WriteOnly)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Size())
	require.NoError(t, w.Close())
}

func TestModesAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.dat")
	w, err := Open(path, WriteOnly)
	require.NoError(t, err)
	_, err = w.Read()
	assert.ErrorIs(t, err, ErrMode)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrClosed)
	_, err = w.Write("x")
	assert.ErrorIs(t, err, ErrClosed)

	r, err := Open(path, ReadOnly)
	require.NoError(t, err)
	_, err = r.Write("x")
	assert.ErrorIs(t, err, ErrMode)
	_, err = r.Read()
	assert.ErrorIs(t, err, ErrEndOfData)
	require.NoError(t, r.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing", "gen.dat"), ReadOnly)
	assert.ErrorIs(t, err, ErrIO)
}
