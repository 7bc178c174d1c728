package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/stance/internal/config"
	"github.com/JaimeStill/stance/internal/infrastructure"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=stancestore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/stancestore;"

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(defaultConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Completion == nil {
		t.Error("Completion is nil")
	}
	if infra.Storage == nil || infra.Storage.Enabled() {
		t.Error("Storage should be present and disabled by default")
	}
}

func TestNewWithStorage(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Storage.ConnectionString = azuriteConnString

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !infra.Storage.Enabled() {
		t.Error("Storage should be enabled with a connection string")
	}
}

func TestNewInvalidStorage(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Storage.ConnectionString = "not-a-connection-string"

	if _, err := infrastructure.New(cfg); err == nil {
		t.Fatal("expected error for invalid connection string")
	}
}

func TestStartDisabledStorageIsReady(t *testing.T) {
	infra, err := infrastructure.New(defaultConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup() error = %v", err)
	}
	if !infra.Lifecycle.Ready() {
		t.Error("should be ready with no startup hooks pending")
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := infrastructure.NewLogger(&config.LogConfig{Level: "info", Format: config.LogFormatJSON}, &buf)
		logger.Info("hello", "label", "1")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("json output: %v", err)
		}
		if entry["msg"] != "hello" || entry["label"] != "1" {
			t.Errorf("entry: got %v", entry)
		}
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := infrastructure.NewLogger(&config.LogConfig{Level: "warn", Format: config.LogFormatText}, &buf)
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
			t.Errorf("level filtering: got %q", out)
		}
	})
}
