package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"unitdesk/config"
	"unitdesk/pkg/logger"

	_ "github.com/lib/pq"
)

// DSN builds the PostgreSQL connection URL.
func DSN(c config.DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Connect opens the database and pings it a few times before giving up.
func Connect(c config.DBConfig) *sql.DB {
	db, err := sql.Open("postgres", DSN(c))
	if err != nil {
		logger.Sugar.Fatalf("Failed to open database connection: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	logger.Sugar.Fatal("Could not connect to database after retries")
	return nil
}

// Schema creates the template table when it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS invoice_templates (
	id          UUID PRIMARY KEY,
	tenant_id   TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	document    JSONB NOT NULL,
	is_default  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS invoice_templates_one_default
	ON invoice_templates (tenant_id) WHERE is_default;
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
