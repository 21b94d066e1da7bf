package workflows

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/ghuser/oraclegate/pkg/logger"
)

func TestTemporalLogger_ForwardsKeyvals(t *testing.T) {
	var buf bytes.Buffer
	tl := newTemporalLogger(logger.NewWithWriter(&buf, slog.LevelDebug, false))

	tl.Warn("activity retry", "ActivityType", "AuditRegistry", "Attempt", 2)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" || entry["msg"] != "activity retry" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["ActivityType"] != "AuditRegistry" || entry["Attempt"] != float64(2) {
		t.Fatalf("keyvals not forwarded: %v", entry)
	}
}
