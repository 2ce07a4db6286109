package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// fakeDriver counts commits and rollbacks and can fail the first
// failCommits commit calls with a pq error code.
type fakeDriver struct {
	commits     int64
	rollbacks   int64
	failCommits int64
	failCode    string
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return &fakeConn{driver: d}, nil
}

type fakeConn struct {
	driver *fakeDriver
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{}, nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return &fakeTx{driver: c.driver}, nil
}

func (c *fakeConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return &fakeTx{driver: c.driver}, nil
}

type fakeTx struct {
	driver *fakeDriver
}

func (t *fakeTx) Commit() error {
	call := atomic.AddInt64(&t.driver.commits, 1)
	if call <= t.driver.failCommits {
		code := t.driver.failCode
		if code == "" {
			code = "40001"
		}
		return &pq.Error{Code: pq.ErrorCode(code)}
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	atomic.AddInt64(&t.driver.rollbacks, 1)
	return nil
}

type fakeStmt struct{}

func (s *fakeStmt) Close() error {
	return nil
}

func (s *fakeStmt) NumInput() int {
	return -1
}

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return nil, nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, nil
}

var driverCounter uint64

func openFakeDB(t *testing.T, d *fakeDriver) *sqlx.DB {
	t.Helper()
	name := fmt.Sprintf("fake-%d", atomic.AddUint64(&driverCounter, 1))
	sql.Register(name, d)
	sqlDB, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return sqlx.NewDb(sqlDB, name)
}

func TestWithTxCommits(t *testing.T) {
	d := &fakeDriver{}
	xdb := openFakeDB(t, d)
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.commits != 1 || d.rollbacks != 0 {
		t.Fatalf("expected commit=1 rollback=0, got %d/%d", d.commits, d.rollbacks)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d := &fakeDriver{}
	xdb := openFakeDB(t, d)
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return errors.New("boom") }); err == nil {
		t.Fatalf("expected error")
	}
	if d.rollbacks != 1 {
		t.Fatalf("expected rollback=1, got %d", d.rollbacks)
	}
}

func TestWithTxRetriesOnSerializationFailure(t *testing.T) {
	d := &fakeDriver{failCommits: 1}
	xdb := openFakeDB(t, d)
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.commits != 2 {
		t.Fatalf("expected 2 commit attempts, got %d", d.commits)
	}
}

func TestWithTxGivesUpAfterMaxAttempts(t *testing.T) {
	d := &fakeDriver{failCommits: 10, failCode: "40P01"}
	xdb := openFakeDB(t, d)
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil }); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if d.commits != 5 {
		t.Fatalf("expected 5 commit attempts, got %d", d.commits)
	}
}
