package pointsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hupe1980/closestpos/internal/conv"

	_ "modernc.org/sqlite" // pure Go sqlite driver
)

func loadSQLite(ctx context.Context, path string, opts Options) (Source, error) {
	dst, err := newRecords(opts)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s ORDER BY rowid",
		quoteIdent(opts.Columns[0]), quoteIdent(opts.Columns[1]), quoteIdent(opts.Columns[2]), quoteIdent(opts.Table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pointsource: %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw [3]float64
		if err := rows.Scan(&raw[0], &raw[1], &raw[2]); err != nil {
			return nil, fmt.Errorf("pointsource: %s: row %d: %w", path, dst.arr.Len(), err)
		}
		var v [3]float32
		for axis, f := range raw {
			if v[axis], err = conv.Float64ToFloat32(f); err != nil {
				return nil, fmt.Errorf("pointsource: %s: row %d: %w", path, dst.arr.Len(), err)
			}
		}
		if err := dst.add(ctx, v); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pointsource: %s: %w", path, err)
	}

	return arraySource{dst.arr}, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
