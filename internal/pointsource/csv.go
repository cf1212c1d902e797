package pointsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

func readCSV(ctx context.Context, r io.Reader, dst *records) error {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	cols := [3]int{0, 1, 2}
	first := true

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if first {
			first = false
			if header, ok := headerColumns(row, dst.opts.Columns); ok {
				cols = header
				continue
			}
		}

		line, _ := cr.FieldPos(0)

		var v [3]float32
		for axis, col := range cols {
			if col >= len(row) {
				return fmt.Errorf("line %d: %d fields, need column %d", line, len(row), col+1)
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 32)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			v[axis] = float32(f)
		}

		if err := dst.add(ctx, v); err != nil {
			return err
		}
	}
}

// headerColumns reports whether row is a header and, if so, where the named
// columns are. A header that does not name all three columns maps them to the
// first three fields.
func headerColumns(row []string, names [3]string) ([3]int, bool) {
	if len(row) == 0 {
		return [3]int{}, false
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 32); err == nil {
		return [3]int{}, false
	}

	cols := [3]int{0, 1, 2}
	for axis, name := range names {
		i := slices.IndexFunc(row, func(field string) bool {
			return strings.EqualFold(strings.TrimSpace(field), name)
		})
		if i < 0 {
			return [3]int{0, 1, 2}, true
		}
		cols[axis] = i
	}
	return cols, true
}
