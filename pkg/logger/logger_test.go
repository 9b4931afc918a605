package logger

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"unknown level defaults to info", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.level, ""); err != nil {
				t.Fatalf("Init(%q) error = %v", tt.level, err)
			}
			if Log == nil {
				t.Fatal("Init() left Log nil")
			}
		})
	}
}

func TestInitWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "service.log")

	if err := Init("info", logFile); err != nil {
		t.Fatalf("Init() with file error = %v", err)
	}

	Log.Info("probe entry")
	if err := Sync(); err != nil {
		// Syncing stdout fails on some platforms; only the build matters here.
		t.Logf("Sync() returned %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"trace", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSyncWithoutInit(t *testing.T) {
	saved := Log
	Log = nil
	defer func() { Log = saved }()

	if err := Sync(); err != nil {
		t.Errorf("Sync() without Init error = %v", err)
	}
}
