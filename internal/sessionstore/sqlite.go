package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS wizard_snapshots (
  session_id TEXT PRIMARY KEY,
  data       TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);`

// SQLiteStore persists session snapshots in a SQLite file so sessions survive
// server restarts.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the snapshot database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("session store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping session store: %w", err)
	}
	if _, err := sqlDB.Exec(snapshotSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the persisted snapshot for a session, if any.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (briefing.CampaignData, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM wizard_snapshots WHERE session_id = ?`, sessionID)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	var data briefing.CampaignData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false, fmt.Errorf("corrupt snapshot for session %s: %w", sessionID, err)
	}
	return data, true, nil
}

// Save upserts the snapshot for a session.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, data briefing.CampaignData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for session %s: %w", sessionID, err)
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO wizard_snapshots (session_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sessionID, string(raw), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Clear removes the snapshot for a session.
func (s *SQLiteStore) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM wizard_snapshots WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

var _ wizard.SnapshotStore = (*SQLiteStore)(nil)
