package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/7283111011/FLK2/internal/config"
)

func TestNewWritesToFileAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.log")
	cfg := &config.Config{Env: "production", Log: config.LogConfig{Level: "warn", File: path}}

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("hidden")
	log.Warn("visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), `"msg":"visible"`) {
		t.Fatalf("unexpected log output: %s", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&config.Config{Log: config.LogConfig{Level: "loud"}}); err == nil {
		t.Fatalf("expected error for bad level")
	}
}
