package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// AuditLog persists every tool invocation so suspicious or surprising
// tool behavior can be inspected after the fact.
type AuditLog struct {
	db *sql.DB
}

func OpenEmberDB() (*AuditLog, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return nil, err
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dbDir := filepath.Join(configDir, "ember")
	if err := os.MkdirAll(dbDir, 0o700); err != nil {
		return nil, err
	}

	return Open(filepath.Join(dbDir, "ember.db"))
}

func Open(path string) (*AuditLog, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := sdb.Ping(); err != nil {
		_ = sdb.Close()
		return nil, err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS tool_calls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			turn_id TEXT NOT NULL,
			tool TEXT NOT NULL,
			arguments TEXT NOT NULL,
			result TEXT NOT NULL,
			failed INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tool_calls_turn ON tool_calls(turn_id, id);`,
	}
	for _, stmt := range schema {
		if _, err := sdb.Exec(stmt); err != nil {
			_ = sdb.Close()
			return nil, err
		}
	}

	return &AuditLog{db: sdb}, nil
}

func (a *AuditLog) Close() error { return a.db.Close() }

// RecordToolCall appends one invocation to the log.
func (a *AuditLog) RecordToolCall(turnID, tool, args, result string, failed bool) error {
	failedInt := 0
	if failed {
		failedInt = 1
	}
	_, err := a.db.Exec(
		"INSERT INTO tool_calls(turn_id, tool, arguments, result, failed, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		turnID,
		tool,
		args,
		result,
		failedInt,
		time.Now().Unix(),
	)
	return err
}

// ToolCallRecord is one logged invocation.
type ToolCallRecord struct {
	ID        int64
	TurnID    string
	Tool      string
	Arguments string
	Result    string
	Failed    bool
	CreatedAt int64
}

// ToolCallsForTurn returns a turn's invocations in execution order.
func (a *AuditLog) ToolCallsForTurn(turnID string) ([]ToolCallRecord, error) {
	rows, err := a.db.Query(
		"SELECT id, turn_id, tool, arguments, result, failed, created_at FROM tool_calls WHERE turn_id = ? ORDER BY id",
		turnID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ToolCallRecord
	for rows.Next() {
		var rec ToolCallRecord
		var failed int
		if err := rows.Scan(&rec.ID, &rec.TurnID, &rec.Tool, &rec.Arguments, &rec.Result, &failed, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Failed = failed != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecentToolCalls returns the newest invocations across all turns.
func (a *AuditLog) RecentToolCalls(limit int) ([]ToolCallRecord, error) {
	rows, err := a.db.Query(
		"SELECT id, turn_id, tool, arguments, result, failed, created_at FROM tool_calls ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ToolCallRecord
	for rows.Next() {
		var rec ToolCallRecord
		var failed int
		if err := rows.Scan(&rec.ID, &rec.TurnID, &rec.Tool, &rec.Arguments, &rec.Result, &failed, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Failed = failed != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}
