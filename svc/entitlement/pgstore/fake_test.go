package pgstore_test

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// fakeDB records statements and replays canned results.
type fakeDB struct {
	mu      sync.Mutex
	queries []string
	args    [][]any

	row     func(dest ...any) error
	execTag string
	execErr error
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.record(sql, args)
	if d.execErr != nil {
		return pgconn.CommandTag{}, d.execErr
	}
	return pgconn.NewCommandTag(d.execTag), nil
}

func (d *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.record(sql, args)
	return fakeRow{scan: d.row}
}

func (d *fakeDB) record(sql string, args []any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, strings.Join(strings.Fields(sql), " "))
	d.args = append(d.args, args)
}

func (d *fakeDB) lastQuery() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries[len(d.queries)-1]
}

func (d *fakeDB) lastArgs() []any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.args[len(d.args)-1]
}
