package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func capture() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewWithHandler(h), &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &rec); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	return rec
}

func TestModuleLogger(t *testing.T) {
	l, buf := capture()
	l.Module("stateless").Warn("masking undecodable account value", "address", "0xabc")
	rec := lastRecord(t, buf)
	if rec["module"] != "stateless" {
		t.Errorf("module = %v, want stateless", rec["module"])
	}
	if rec["msg"] != "masking undecodable account value" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["address"] != "0xabc" {
		t.Errorf("address = %v", rec["address"])
	}
	if rec["level"] != "WARN" {
		t.Errorf("level = %v", rec["level"])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := capture()
	l.With("root", "0x01").Info("revealed")
	rec := lastRecord(t, buf)
	if rec["root"] != "0x01" {
		t.Errorf("root = %v", rec["root"])
	}
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, buf := capture()
	SetDefault(l)
	Info("hello")
	if buf.Len() == 0 {
		t.Fatal("default logger not replaced")
	}
	// nil must not clobber the default.
	SetDefault(nil)
	if Default() != l {
		t.Fatal("SetDefault(nil) replaced the logger")
	}
}
