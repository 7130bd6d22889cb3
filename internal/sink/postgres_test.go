package sink_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tknemuru/kindergarten-collecting/internal/sink"
)

func newPostgresSink(t *testing.T) (*sink.Postgres, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return sink.NewPostgres(db, "kinder_records"), mock
}

func TestPostgres_EnsureTable(t *testing.T) {
	t.Parallel()

	p, mock := newPostgresSink(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kinder_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, p.EnsureTable(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Write(t *testing.T) {
	t.Parallel()

	p, mock := newPostgresSink(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kinder_records").
		WithArgs("run-1", 0, "さくら", []byte(`{"kinderName":"さくら","定員":"60"}`), collectedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO kinder_records").
		WithArgs("run-1", 1, "ひまわり", []byte(`{"kinderName":"ひまわり"}`), collectedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.Write(context.Background(), testBatch()))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "postgres", p.Name())
}

func TestPostgres_WriteRollsBackOnError(t *testing.T) {
	t.Parallel()

	p, mock := newPostgresSink(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO kinder_records").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO kinder_records").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := p.Write(context.Background(), testBatch())
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}
