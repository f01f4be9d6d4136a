package sample

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV reads "x,y" rows. A first row that does not parse as numbers is
// taken as a header and skipped; blank lines are ignored.
func ReadCSV(r io.Reader) (Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var s Sample
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sample{}, fmt.Errorf("%w: csv: %w", ErrInvalidInput, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return Sample{}, fmt.Errorf("%w: csv row %d has %d fields, want 2", ErrInvalidInput, row, len(rec))
		}
		x, xerr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, yerr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if xerr != nil || yerr != nil {
			if row == 1 {
				continue
			}
			return Sample{}, fmt.Errorf("%w: csv row %d: %q is not a number pair", ErrInvalidInput, row, rec[:2])
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := s.Validate(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

// WriteCSV writes the sample with an "x,y" header.
func WriteCSV(w io.Writer, s Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for i := range s.X {
		row := []string{
			strconv.FormatFloat(s.X[i], 'g', -1, 64),
			strconv.FormatFloat(s.Y[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
