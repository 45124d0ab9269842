package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "bogus")
	t.Setenv("LOG_TO_FILE", "false")
	t.Setenv("LOG_CALLER", "true")

	opts := OptionsFromEnv()
	if opts.Level != zapcore.WarnLevel {
		t.Errorf("Level = %v, want warn", opts.Level)
	}
	if opts.Format != "legacy" {
		t.Errorf("Format = %q, want legacy fallback", opts.Format)
	}
	if !opts.Console || opts.ToFile || !opts.Caller {
		t.Errorf("flags = console:%v file:%v caller:%v", opts.Console, opts.ToFile, opts.Caller)
	}
	if opts.FilePath != filepath.Join("logs", "chess.log") {
		t.Errorf("FilePath = %q", opts.FilePath)
	}
}

func TestNewJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: zapcore.InfoLevel, Format: "json", Console: true, Stdout: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("chess_move", zap.String("game_id", "g-1"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "chess_move" || entry["game_id"] != "g-1" || entry["level"] != "info" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chess.log")
	logger, err := New(Options{Level: zapcore.InfoLevel, Format: "legacy", ToFile: true, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("rate_limit_exceeded", zap.String("ip", "1.2.3.4"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "WARN | ") || !strings.Contains(string(raw), "rate_limit_exceeded") {
		t.Fatalf("unexpected log file contents: %s", raw)
	}
}

func TestSetNilRestoresNop(t *testing.T) {
	Set(zap.NewExample())
	Set(nil)
	if L() == nil {
		t.Fatalf("L() returned nil")
	}
	if ce := L().Check(zapcore.ErrorLevel, "x"); ce != nil {
		t.Fatalf("expected no-op logger after Set(nil)")
	}
}
