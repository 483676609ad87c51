package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapakly/lapak-api/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil passes through", err: nil, want: nil},
		{
			name: "no rows maps to not found",
			err:  sql.ErrNoRows,
			want: store.ErrNotFound,
		},
		{
			name: "unique violation maps to duplicate",
			err:  &pgconn.PgError{Code: uniqueViolationCode},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key violation maps to invalid entity",
			err:  &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk_products_user"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "check violation maps to invalid entity",
			err:  &pgconn.PgError{Code: checkViolationCode},
			want: store.ErrInvalidEntity,
		},
		{
			name: "not null violation maps to invalid entity",
			err:  &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			want: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapErrorUnknownPassesThrough(t *testing.T) {
	err := fmt.Errorf("connection refused")
	assert.Equal(t, err, MapError(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
}

// fakeResult implements sql.Result with a fixed rows-affected count.
type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

func TestCheckRowsAffectedNilResult(t *testing.T) {
	err := CheckRowsAffected(nil, store.ErrProductNotFound)
	assert.Error(t, err)
}

func TestCheckRowsAffectedZeroRowsReturnsSentinel(t *testing.T) {
	err := CheckRowsAffected(fakeResult{rows: 0}, store.ErrProductNotFound)
	require.Error(t, err)

	// The entity sentinel must survive so the API layer can match it.
	assert.ErrorIs(t, err, store.ErrProductNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckRowsAffectedZeroRowsNilSentinel(t *testing.T) {
	err := CheckRowsAffected(fakeResult{rows: 0}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckRowsAffectedNonZeroRows(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, store.ErrProductNotFound))
}
