package database

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdesk/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	dsn := DSN(config.DBConfig{User: "app", Password: "p@ss/word", Host: "db", Port: "5432", Name: "unitdesk", SSLMode: "disable"})
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/unitdesk?sslmode=disable", dsn)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS invoice_templates")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(db))

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	assert.Error(t, Migrate(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
