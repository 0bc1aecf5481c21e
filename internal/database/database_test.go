package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// The DDL must be idempotent and carry the uniqueness constraints the
	// signup race relies on.
	mock.ExpectExec(`(?s)CREATE TABLE IF NOT EXISTS users.*username TEXT UNIQUE NOT NULL.*email TEXT UNIQUE NOT NULL.*CREATE TABLE IF NOT EXISTS reviews.*REFERENCES users\(id\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratePropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(assert.AnError)

	assert.Error(t, Migrate(db))
}
