package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultRetries = 5

// Schema for the two session-memory record kinds. chat_history rows carry a
// unix timestamp so TTL cleanup is a single range delete; user_prefs stores
// the preference map as a JSON document keyed by session.
const schema = `
CREATE TABLE IF NOT EXISTS chat_history (
    session_id TEXT NOT NULL,
    role       TEXT NOT NULL,
    content    TEXT NOT NULL,
    ts         INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_history_session_ts
    ON chat_history (session_id, ts);

CREATE TABLE IF NOT EXISTS user_prefs (
    session_id TEXT PRIMARY KEY,
    prefs      TEXT NOT NULL
);
`

// Init opens the SQLite database at path and ensures the schema exists.
// The returned *sql.DB hands out an independent connection per operation,
// which is what lets interleaved sessions proceed without a shared lock.
func Init(path string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("SQLite database initialized", slog.String("path", path))
	return db, nil
}

// WaitForDB pings the database with backoff until it responds or retries run out.
func WaitForDB(ctx context.Context, db *sql.DB, logger *slog.Logger) bool {
	maxAttempts := defaultRetries
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := db.PingContext(ctx)
		if err == nil {
			logger.InfoContext(ctx, "Database connection successful")
			return true
		}

		waitDuration := time.Duration(attempts) * 200 * time.Millisecond
		logger.WarnContext(ctx, "Database ping failed, retrying...",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("wait_duration", waitDuration),
			slog.String("error", err.Error()),
		)
		if attempts < maxAttempts {
			time.Sleep(waitDuration)
		}
	}
	logger.ErrorContext(ctx, "Database connection failed after multiple retries")
	return false
}
