package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestWriteJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("expansion_fallback", map[string]any{"reason": errors.New("timeout"), "msg": "ignored", "terms": 0})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if got["level"] != "warn" || got["msg"] != "expansion_fallback" {
		t.Fatalf("unexpected entry: %v", got)
	}
	if got["reason"] != "timeout" {
		t.Fatalf("expected error rendered as string, got %v", got["reason"])
	}
	if _, ok := got["ts"].(string); !ok {
		t.Fatalf("missing ts: %v", got)
	}
}

func TestSetOutputRestores(t *testing.T) {
	var first, second bytes.Buffer
	restoreFirst := SetOutput(&first)
	restoreSecond := SetOutput(&second)
	Info("ranked", map[string]any{"count": 3, "user_id": "guest:1"})
	restoreSecond()
	Info("after_restore", nil)
	restoreFirst()

	if first.Len() == 0 || second.Len() == 0 {
		t.Fatalf("expected one line per writer, got %q and %q", first.String(), second.String())
	}
	var got map[string]any
	if err := json.Unmarshal(second.Bytes(), &got); err != nil {
		t.Fatalf("invalid json line %q: %v", second.String(), err)
	}
	if got["level"] != "info" || got["count"] != float64(3) || got["user_id"] != "guest:1" {
		t.Fatalf("unexpected entry: %v", got)
	}
}
