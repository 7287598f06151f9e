package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Ensure implementation satisfies the interface
var _ Repository = (*SQLiteRepository)(nil)

// Repository is the session memory store: a chat transcript plus a flat
// preference map, both keyed by an opaque caller-supplied session identifier.
// Chat turns expire after the retention window; preferences do not.
type Repository interface {
	GetHistory(ctx context.Context, sessionID string) ([]string, error)
	AddTurn(ctx context.Context, sessionID, text string) error
	GetPrefs(ctx context.Context, sessionID string) (map[string]any, error)
	UpdatePrefs(ctx context.Context, sessionID string, updates map[string]any) error
	DeleteSessionData(ctx context.Context, sessionID string) error
	CleanupExpired(ctx context.Context) error
}

type SQLiteRepository struct {
	logger *slog.Logger
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
}

func NewSQLiteRepository(db *sql.DB, ttl time.Duration, logger *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		logger: logger,
		db:     db,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Used by TTL tests.
func (r *SQLiteRepository) WithClock(now func() time.Time) *SQLiteRepository {
	r.now = now
	return r
}

// GetHistory returns all non-expired turns for the session as role-labeled
// strings, oldest first. Expiry cleanup runs before the read.
func (r *SQLiteRepository) GetHistory(ctx context.Context, sessionID string) ([]string, error) {
	if err := r.CleanupExpired(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content FROM chat_history WHERE session_id = ? ORDER BY ts, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var history []string
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		history = append(history, capitalize(role)+": "+content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat history: %w", err)
	}
	return history, nil
}

// AddTurn appends one role-tagged turn with the current timestamp. The text
// must be encoded as "Role: content"; input without a separator is a caller
// contract violation and is not guarded.
func (r *SQLiteRepository) AddTurn(ctx context.Context, sessionID, text string) error {
	if err := r.CleanupExpired(ctx); err != nil {
		return err
	}

	role, content, _ := strings.Cut(text, ":")

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_history (session_id, role, content, ts) VALUES (?, ?, ?, ?)`,
		sessionID, strings.ToLower(strings.TrimSpace(role)), strings.TrimSpace(content), r.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert chat turn: %w", err)
	}
	return nil
}

// GetPrefs returns the preference map for the session, or an empty map when
// no record exists.
func (r *SQLiteRepository) GetPrefs(ctx context.Context, sessionID string) (map[string]any, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT prefs FROM user_prefs WHERE session_id = ?`, sessionID).Scan(&raw)
	if err == sql.ErrNoRows {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}

	prefs := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePrefs merges the partial map over any stored preferences as a single
// atomic upsert: json_patch runs inside the conflict clause, so concurrent
// updates for the same session cannot lose keys to a read-merge-write race.
func (r *SQLiteRepository) UpdatePrefs(ctx context.Context, sessionID string, updates map[string]any) error {
	patch, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("failed to encode preference updates: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO user_prefs (session_id, prefs) VALUES (?, ?)
        ON CONFLICT(session_id) DO UPDATE SET prefs = json_patch(user_prefs.prefs, excluded.prefs)`,
		sessionID, string(patch))
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

// DeleteSessionData removes all chat turns and the preference record for the
// session. Safe to call repeatedly.
func (r *SQLiteRepository) DeleteSessionData(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_history WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM user_prefs WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}

// CleanupExpired deletes every chat turn older than the retention window.
// Preferences are deliberately left untouched.
func (r *SQLiteRepository) CleanupExpired(ctx context.Context) error {
	cutoff := r.now().Add(-r.ttl).Unix()
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_history WHERE ts < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to clean up expired chat turns: %w", err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
