package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockDB is a mock implementation of DBTX.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	a := m.Called(append([]any{ctx, sql}, args...)...)
	return a.Get(0).(pgconn.CommandTag), a.Error(1)
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	a := m.Called(append([]any{ctx, sql}, args...)...)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(pgx.Rows), a.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	a := m.Called(append([]any{ctx, sql}, args...)...)
	return a.Get(0).(pgx.Row)
}

func (m *MockDB) Begin(ctx context.Context) (pgx.Tx, error) {
	a := m.Called(ctx)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(pgx.Tx), a.Error(1)
}

// errRow is a pgx.Row whose Scan always fails with err.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
