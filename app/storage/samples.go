package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/spam-check/app/storage/engine"
)

// Samples is a storage for user's training samples, both ham and spam.
// Samples are added on top of the embedded seed corpus on every training.
type Samples struct {
	*engine.SQL
	engine.RWLocker
}

// SampleType represents the type of the sample
type SampleType string

// enum for sample types
const (
	SampleTypeHam  SampleType = "ham"
	SampleTypeSpam SampleType = "spam"
)

// samples-related command constants
const (
	CmdCreateSamplesTable engine.DBCmd = iota + 500
	CmdCreateSamplesIndexes
	CmdAddSample
)

var samplesQueries = engine.NewQueryMap().
	Add(CmdCreateSamplesTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS samples (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
            type TEXT CHECK (type IN ('ham', 'spam')),
            message TEXT NOT NULL,
            UNIQUE(gid, message)
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS samples (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            type TEXT CHECK (type IN ('ham', 'spam')),
            message TEXT NOT NULL,
            message_hash TEXT GENERATED ALWAYS AS (encode(sha256(message::bytea), 'hex')) STORED,
            UNIQUE(gid, message_hash)
        )`,
	}).
	Add(CmdCreateSamplesIndexes, engine.Query{
		Sqlite: `
			CREATE INDEX IF NOT EXISTS idx_samples_gid ON samples(gid);
			CREATE INDEX IF NOT EXISTS idx_samples_lookup ON samples(gid, type)`,
		Postgres: `
			CREATE INDEX IF NOT EXISTS idx_samples_gid ON samples(gid);
			CREATE INDEX IF NOT EXISTS idx_samples_lookup ON samples(gid, type);
			CREATE INDEX IF NOT EXISTS idx_samples_message_hash ON samples(message_hash)`,
	}).
	Add(CmdAddSample, engine.Query{
		Sqlite: `INSERT OR REPLACE INTO samples (gid, type, message) VALUES (?, ?, ?)`,
		Postgres: `INSERT INTO samples (gid, type, message) VALUES ($1, $2, $3)
                  ON CONFLICT (gid, message_hash) DO UPDATE SET type = EXCLUDED.type, timestamp = CURRENT_TIMESTAMP`,
	})

// SamplesStats returns statistics about samples
type SamplesStats struct {
	TotalSpam int `db:"spam_count" json:"spam"`
	TotalHam  int `db:"ham_count" json:"ham"`
}

// NewSamples creates a new Samples storage
func NewSamples(ctx context.Context, db *engine.SQL) (*Samples, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &Samples{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "samples",
		CreateTable:   CmdCreateSamplesTable,
		CreateIndexes: CmdCreateSamplesIndexes,
		MigrateFunc:   func(context.Context, *sqlx.Tx, string) error { return nil },
		QueriesMap:    samplesQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init samples storage: %w", err)
	}
	return res, nil
}

// Add adds a sample to the storage. The same message added again replaces the type of the old one.
func (s *Samples) Add(ctx context.Context, t SampleType, message string) error {
	log.Printf("[DEBUG] adding sample: %s, %q", t, shorten(message, 1024))
	if err := t.Validate(); err != nil {
		return err
	}
	if message == "" {
		return fmt.Errorf("message can't be empty")
	}

	s.Lock()
	defer s.Unlock()

	query, err := samplesQueries.Pick(s.Type(), CmdAddSample)
	if err != nil {
		return fmt.Errorf("failed to get query: %w", err)
	}
	if _, err := s.ExecContext(ctx, query, s.GID(), t, message); err != nil {
		return fmt.Errorf("failed to add sample: %w", err)
	}
	return nil
}

// Delete removes a sample of the given type by its message
func (s *Samples) Delete(ctx context.Context, t SampleType, message string) error {
	log.Printf("[DEBUG] deleting sample: %s, %q", t, shorten(message, 1024))
	if err := t.Validate(); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	query := s.Adopt(`DELETE FROM samples WHERE gid = ? AND type = ? AND message = ?`)
	result, err := s.ExecContext(ctx, query, s.GID(), t, message)
	if err != nil {
		return fmt.Errorf("failed to remove sample: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sample not found: gid=%s, type=%s, message=%s", s.GID(), t, message)
	}
	return nil
}

// Read reads samples of the given type, the oldest first
func (s *Samples) Read(ctx context.Context, t SampleType) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s.RLock()
	defer s.RUnlock()

	samples := []string{}
	query := s.Adopt(`SELECT message FROM samples WHERE gid = ? AND type = ? ORDER BY id`)
	if err := s.SelectContext(ctx, &samples, query, s.GID(), t); err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}
	log.Printf("[DEBUG] read %d samples: gid=%s, type=%s", len(samples), s.GID(), t)
	return samples, nil
}

// Samples returns all spam and ham samples, implements model.SampleSource
func (s *Samples) Samples(ctx context.Context) (spam, ham []string, err error) {
	if spam, err = s.Read(ctx, SampleTypeSpam); err != nil {
		return nil, nil, err
	}
	if ham, err = s.Read(ctx, SampleTypeHam); err != nil {
		return nil, nil, err
	}
	return spam, ham, nil
}

// Stats returns statistics about samples
func (s *Samples) Stats(ctx context.Context) (*SamplesStats, error) {
	s.RLock()
	defer s.RUnlock()

	query := s.Adopt(`
        SELECT
            COUNT(CASE WHEN type = 'spam' THEN 1 END) as spam_count,
            COUNT(CASE WHEN type = 'ham' THEN 1 END) as ham_count
        FROM samples
        WHERE gid = ?`)

	var stats SamplesStats
	if err := s.GetContext(ctx, &stats, query, s.GID()); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

// String implements Stringer interface
func (st *SamplesStats) String() string {
	return fmt.Sprintf("spam: %d, ham: %d", st.TotalSpam, st.TotalHam)
}

// String implements Stringer interface
func (t SampleType) String() string { return string(t) }

// Validate checks if the sample type is valid
func (t SampleType) Validate() error {
	switch t {
	case SampleTypeHam, SampleTypeSpam:
		return nil
	}
	return fmt.Errorf("invalid sample type: %s", t)
}

func shorten(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
