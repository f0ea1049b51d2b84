package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tinderbox/internal/config"
)

func TestNewLevels(t *testing.T) {
	for _, tc := range []struct {
		cfg  config.LoggingConfig
		want zapcore.Level
	}{
		{config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{config.LoggingConfig{Level: "loud"}, zapcore.InfoLevel},
	} {
		log, err := New(tc.cfg)
		if err != nil {
			t.Fatalf("New(%+v): %v", tc.cfg, err)
		}
		if !log.Core().Enabled(tc.want) || (tc.want > zapcore.DebugLevel && log.Core().Enabled(tc.want-1)) {
			t.Fatalf("New(%+v) level mismatch, want %v", tc.cfg, tc.want)
		}
	}
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	log, err := ToFile(config.LoggingConfig{Level: "info"}, path)
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	log.Info("hello", zap.Int("n", 1))
	_ = log.Sync()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file = %q", data)
	}
}
