package db

import (
	"path/filepath"
	"testing"
)

func openTestLog(t *testing.T) *AuditLog {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRecordAndReadBack(t *testing.T) {
	log := openTestLog(t)

	if err := log.RecordToolCall("turn-1", "add", `{"a":1,"b":2}`, `{"sum":3}`, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := log.RecordToolCall("turn-1", "read_file", `{"path":"x"}`, `{"error":"not_found"}`, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := log.RecordToolCall("turn-2", "add", `{"a":0,"b":0}`, `{"sum":0}`, false); err != nil {
		t.Fatalf("record: %v", err)
	}

	recs, err := log.ToolCallsForTurn("turn-1")
	if err != nil {
		t.Fatalf("ToolCallsForTurn: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %v", recs)
	}
	if recs[0].Tool != "add" || recs[0].Failed {
		t.Fatalf("first = %+v", recs[0])
	}
	if recs[1].Tool != "read_file" || !recs[1].Failed {
		t.Fatalf("second = %+v", recs[1])
	}
}

func TestRecentToolCallsNewestFirst(t *testing.T) {
	log := openTestLog(t)
	for _, tool := range []string{"one", "two", "three"} {
		if err := log.RecordToolCall("t", tool, "{}", "{}", false); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recs, err := log.RecentToolCalls(2)
	if err != nil {
		t.Fatalf("RecentToolCalls: %v", err)
	}
	if len(recs) != 2 || recs[0].Tool != "three" || recs[1].Tool != "two" {
		t.Fatalf("records = %v", recs)
	}
}
