package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/spam-check/app/storage/engine"
	"github.com/umputun/spam-check/lib/model"
)

// Artifacts keeps the trained model artifact in the database, one per group. Implements model.Store.
type Artifacts struct {
	*engine.SQL
	engine.RWLocker
}

// artifacts-related command constants
const (
	CmdCreateArtifactsTable engine.DBCmd = iota + 700
	CmdCreateArtifactsIndexes
	CmdUpsertArtifact
)

var artifactsQueries = engine.NewQueryMap().
	Add(CmdCreateArtifactsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS artifacts (
            gid TEXT PRIMARY KEY,
            updated_at DATETIME NOT NULL,
            data TEXT NOT NULL
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS artifacts (
            gid TEXT PRIMARY KEY,
            updated_at TIMESTAMPTZ NOT NULL,
            data TEXT NOT NULL
        )`,
	}).
	AddSame(CmdCreateArtifactsIndexes, `CREATE INDEX IF NOT EXISTS idx_artifacts_updated ON artifacts(updated_at)`).
	Add(CmdUpsertArtifact, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO artifacts (gid, updated_at, data) VALUES (?, ?, ?)`,
		Postgres: `INSERT INTO artifacts (gid, updated_at, data) VALUES ($1, $2, $3)
                  ON CONFLICT (gid) DO UPDATE SET updated_at = EXCLUDED.updated_at, data = EXCLUDED.data`,
	})

// NewArtifacts creates a new Artifacts storage
func NewArtifacts(ctx context.Context, db *engine.SQL) (*Artifacts, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Artifacts{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "artifacts",
		CreateTable:   CmdCreateArtifactsTable,
		CreateIndexes: CmdCreateArtifactsIndexes,
		MigrateFunc:   func(context.Context, *sqlx.Tx, string) error { return nil },
		QueriesMap:    artifactsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init artifacts storage: %w", err)
	}
	return res, nil
}

// Load reads and validates the artifact of the group
func (a *Artifacts) Load(ctx context.Context) (*model.Artifact, error) {
	a.RLock()
	defer a.RUnlock()

	var data string
	err := a.GetContext(ctx, &data, a.Adopt(`SELECT data FROM artifacts WHERE gid = ?`), a.GID())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no artifact for gid %q: %w", a.GID(), model.ErrNoArtifact)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return model.Unmarshal([]byte(data))
}

// Save replaces the artifact of the group
func (a *Artifacts) Save(ctx context.Context, art *model.Artifact) error {
	data, err := art.Marshal()
	if err != nil {
		return err
	}

	a.Lock()
	defer a.Unlock()

	query, err := artifactsQueries.Pick(a.Type(), CmdUpsertArtifact)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}
	if _, err = a.ExecContext(ctx, query, a.GID(), time.Now().UTC(), string(data)); err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}
	log.Printf("[DEBUG] artifact saved, gid: %s, size: %d", a.GID(), len(data))
	return nil
}
