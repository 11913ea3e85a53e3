package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const DefaultURL = "sqlite://./pricing.db"

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite3"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
)

// Open connects to databaseURL and creates the schema if needed.
//
// postgres:// and postgresql:// URLs use lib/pq. sqlite://path, file: URIs and
// bare paths use go-sqlite3; sqlite:///./x.db resolves to ./x.db and
// sqlite:////abs/x.db to /abs/x.db.
func Open(databaseURL string) (*Repo, error) {
	if databaseURL == "" {
		databaseURL = DefaultURL
	}

	driver, dsn, err := parseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Connect: %w", err)
	}

	switch {
	case driver == driverPostgres:
		// sqlx default is 0 (unlimited), while postgresql by default accepts up to 100 connections
		db.SetMaxOpenConns(80)
	case dsn == ":memory:":
		// every connection to :memory: is a new empty database
		db.SetMaxOpenConns(1)
	}

	r := &Repo{
		driver: driver,
		db:     db,
	}
	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("createSchema: %w", err)
	}

	return r, nil
}

type Repo struct {
	driver string
	db     *sqlx.DB
}

func (r *Repo) Driver() string {
	return r.driver
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func parseURL(databaseURL string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return driverPostgres, databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", databaseURL)
		}
		return driverSQLite, path, nil
	case strings.HasPrefix(databaseURL, "file:"):
		return driverSQLite, databaseURL, nil
	case strings.Contains(databaseURL, "://"):
		return "", "", fmt.Errorf("unsupported database url %q. must be postgres:// or sqlite://", databaseURL)
	default:
		return driverSQLite, databaseURL, nil
	}
}

func (r *Repo) createSchema() error {
	schema := sqliteSchema
	if r.driver == driverPostgres {
		schema = postgresSchema
	}

	// lib/pq and go-sqlite3 both accept multiple statements in one Exec.
	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	return nil
}

// withTx runs fn in a transaction, rolling back if fn returns an error.
func (r *Repo) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pricing_datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	uploaded_at TIMESTAMP NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	row_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS insurance_prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset_id TEXT NOT NULL REFERENCES pricing_datasets(id),
	age_min INTEGER NOT NULL,
	age_max INTEGER NOT NULL,
	zip_prefix VARCHAR(3) NOT NULL,
	insurance_model TEXT NOT NULL,
	deductible INTEGER NOT NULL,
	accident_coverage BOOLEAN NOT NULL DEFAULT 0,
	monthly_premium REAL NOT NULL,
	annual_premium REAL NOT NULL,
	provider_name TEXT NOT NULL,
	provider_code TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pricing_lookup ON insurance_prices(dataset_id, zip_prefix, insurance_model, deductible);
CREATE INDEX IF NOT EXISTS idx_age_range ON insurance_prices(age_min, age_max);

CREATE TABLE IF NOT EXISTS providers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	logo_url TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS pricing_datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	uploaded_at TIMESTAMP NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	row_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS insurance_prices (
	id SERIAL PRIMARY KEY,
	dataset_id TEXT NOT NULL REFERENCES pricing_datasets(id),
	age_min INTEGER NOT NULL,
	age_max INTEGER NOT NULL,
	zip_prefix VARCHAR(3) NOT NULL,
	insurance_model TEXT NOT NULL,
	deductible INTEGER NOT NULL,
	accident_coverage BOOLEAN NOT NULL DEFAULT FALSE,
	monthly_premium DOUBLE PRECISION NOT NULL,
	annual_premium DOUBLE PRECISION NOT NULL,
	provider_name TEXT NOT NULL,
	provider_code TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pricing_lookup ON insurance_prices(dataset_id, zip_prefix, insurance_model, deductible);
CREATE INDEX IF NOT EXISTS idx_age_range ON insurance_prices(age_min, age_max);

CREATE TABLE IF NOT EXISTS providers (
	id SERIAL PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	logo_url TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE
);
`
