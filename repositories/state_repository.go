package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-manager/models"
	"github.com/lib/pq"
)

var (
	ErrStateNotFound = errors.New("saved state not found")
	ErrStateNotSaved = errors.New("state was not saved")
)

// DefaultStateSlot is the row the running tournament is saved under.
const DefaultStateSlot = "current"

type StateRepository interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
}

// sqlDialect holds the statements that differ between Postgres and SQLite.
type sqlDialect struct {
	name   string
	schema string
	load   string
	upsert string
}

var postgresDialect = sqlDialect{
	name: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS app_states (
			id         TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	load: `SELECT document FROM app_states WHERE id = $1`,
	upsert: `
		INSERT INTO app_states (id, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS app_states (
			id         TEXT PRIMARY KEY,
			document   TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	load: `SELECT document FROM app_states WHERE id = ?`,
	upsert: `
		INSERT INTO app_states (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
}

type sqlStateRepository struct {
	db      SQLExecutor
	slot    string
	dialect sqlDialect
}

// NewPostgresStateRepository stores the state as a JSONB row of app_states.
func NewPostgresStateRepository(db *sql.DB, slot string) StateRepository {
	return newSQLStateRepository(db, slot, postgresDialect)
}

// NewSQLiteStateRepository stores the state as a TEXT row of app_states.
func NewSQLiteStateRepository(db *sql.DB, slot string) StateRepository {
	return newSQLStateRepository(db, slot, sqliteDialect)
}

func newSQLStateRepository(db SQLExecutor, slot string, dialect sqlDialect) *sqlStateRepository {
	if slot == "" {
		slot = DefaultStateSlot
	}
	return &sqlStateRepository{db: db, slot: slot, dialect: dialect}
}

// EnsureSchema creates the app_states table when missing.
func EnsureSchema(ctx context.Context, db SQLExecutor, driver string) error {
	dialect := postgresDialect
	if driver == sqliteDialect.name {
		dialect = sqliteDialect
	}
	if _, err := db.ExecContext(ctx, dialect.schema); err != nil {
		return fmt.Errorf("failed to create app_states table (%s): %w", dialect.name, err)
	}
	return nil
}

func (r *sqlStateRepository) Load(ctx context.Context) (*models.State, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, r.dialect.load, r.slot).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load state %q: %w", r.slot, err)
	}
	return models.DecodeState(raw)
}

func (r *sqlStateRepository) Save(ctx context.Context, state *models.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	var updatedAt interface{} = time.Now().UTC()
	if r.dialect.name == sqliteDialect.name {
		updatedAt = time.Now().Unix()
	}
	// lib/pq sends []byte as bytea; the jsonb column needs text.
	result, err := r.db.ExecContext(ctx, r.dialect.upsert, r.slot, string(raw), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save state %q: %w", r.slot, err)
	}
	return checkAffectedRows(result, ErrStateNotSaved)
}
