// Package storage provides database stores for check history, user training samples and the trained model artifact.
// All stores work on top of engine.SQL and keep data separated by the engine group id.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/spam-check/app/storage/engine"
	"github.com/umputun/spam-check/lib/spamcheck"
)

// History is a storage for completed checks, both guest and authenticated
type History struct {
	*engine.SQL
	engine.RWLocker
}

// HistoryStats summarizes stored checks
type HistoryStats struct {
	Total         int `db:"total" json:"total"`
	Spam          int `db:"spam" json:"spam"`
	Ham           int `db:"ham" json:"ham"`
	Guest         int `db:"guest" json:"guest"`
	Authenticated int `db:"authenticated" json:"authenticated"`
}

type historyRow struct {
	ID         int64     `db:"id"`
	Timestamp  time.Time `db:"timestamp"`
	UserID     string    `db:"user_id"`
	Message    string    `db:"message"`
	Spam       bool      `db:"spam"`
	Confidence float64   `db:"confidence"`
	ProbHam    float64   `db:"prob_ham"`
	ProbSpam   float64   `db:"prob_spam"`
}

// history-related command constants
const (
	CmdCreateHistoryTable engine.DBCmd = iota + 600
	CmdCreateHistoryIndexes
)

var historyQueries = engine.NewQueryMap().
	Add(CmdCreateHistoryTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS checks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            gid TEXT NOT NULL DEFAULT '',
            timestamp DATETIME NOT NULL,
            user_id TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            spam BOOLEAN NOT NULL,
            confidence REAL NOT NULL,
            prob_ham REAL NOT NULL,
            prob_spam REAL NOT NULL
        )`,
		Postgres: `CREATE TABLE IF NOT EXISTS checks (
            id SERIAL PRIMARY KEY,
            gid TEXT NOT NULL DEFAULT '',
            timestamp TIMESTAMPTZ NOT NULL,
            user_id TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            spam BOOLEAN NOT NULL,
            confidence DOUBLE PRECISION NOT NULL,
            prob_ham DOUBLE PRECISION NOT NULL,
            prob_spam DOUBLE PRECISION NOT NULL
        )`,
	}).
	AddSame(CmdCreateHistoryIndexes, `
		CREATE INDEX IF NOT EXISTS idx_checks_gid_ts ON checks(gid, timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_checks_gid_user ON checks(gid, user_id)`)

// NewHistory creates a new History storage
func NewHistory(ctx context.Context, db *engine.SQL) (*History, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is nil")
	}
	res := &History{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "checks",
		CreateTable:   CmdCreateHistoryTable,
		CreateIndexes: CmdCreateHistoryIndexes,
		MigrateFunc:   func(context.Context, *sqlx.Tx, string) error { return nil },
		QueriesMap:    historyQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init history storage: %w", err)
	}
	return res, nil
}

// Add records a completed check
func (h *History) Add(ctx context.Context, check spamcheck.Check) error {
	if check.Timestamp.IsZero() {
		check.Timestamp = time.Now()
	}

	h.Lock()
	defer h.Unlock()

	query := h.Adopt(`INSERT INTO checks (gid, timestamp, user_id, message, spam, confidence, prob_ham, prob_spam)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	resp := check.Response
	_, err := h.ExecContext(ctx, query, h.GID(), check.Timestamp.UTC(), check.Request.UserID, check.Request.Msg,
		resp.Spam, resp.Confidence, resp.Probabilities[0], resp.Probabilities[1])
	if err != nil {
		return fmt.Errorf("failed to insert check: %w", err)
	}
	log.Printf("[DEBUG] check recorded: %s", check.String())
	return nil
}

// Read returns up to limit checks of the user, the newest first. Empty userID reads guest checks.
func (h *History) Read(ctx context.Context, userID string, limit int) ([]spamcheck.Check, error) {
	if limit <= 0 {
		return []spamcheck.Check{}, nil
	}

	h.RLock()
	defer h.RUnlock()

	var rows []historyRow
	query := h.Adopt(`SELECT id, timestamp, user_id, message, spam, confidence, prob_ham, prob_spam
		FROM checks WHERE gid = ? AND user_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`)
	if err := h.SelectContext(ctx, &rows, query, h.GID(), userID, limit); err != nil {
		return nil, fmt.Errorf("failed to read checks for %q: %w", userID, err)
	}

	res := make([]spamcheck.Check, 0, len(rows))
	for _, r := range rows {
		res = append(res, spamcheck.Check{
			Request: spamcheck.Request{Msg: r.Message, UserID: r.UserID},
			Response: spamcheck.Response{
				Spam:          r.Spam,
				Confidence:    r.Confidence,
				Probabilities: [2]float64{r.ProbHam, r.ProbSpam},
			},
			Timestamp: r.Timestamp.Local(),
		})
	}
	return res, nil
}

// Stats returns totals of stored checks
func (h *History) Stats(ctx context.Context) (*HistoryStats, error) {
	h.RLock()
	defer h.RUnlock()

	query := h.Adopt(`
        SELECT
            COUNT(*) as total,
            COUNT(CASE WHEN spam THEN 1 END) as spam,
            COUNT(CASE WHEN NOT spam THEN 1 END) as ham,
            COUNT(CASE WHEN user_id = '' THEN 1 END) as guest,
            COUNT(CASE WHEN user_id <> '' THEN 1 END) as authenticated
        FROM checks
        WHERE gid = ?`)

	var stats HistoryStats
	if err := h.GetContext(ctx, &stats, query, h.GID()); err != nil {
		return nil, fmt.Errorf("failed to get history stats: %w", err)
	}
	return &stats, nil
}
