package infrastructure_test

import (
	"testing"

	"github.com/scoutd/scout/internal/config"
	"github.com/scoutd/scout/internal/infrastructure"
	"github.com/scoutd/scout/pkg/database"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("SCOUT_AGENT_API_KEY", "test-key")

	cfg := &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "scout",
			User:            "scout",
			Password:        "scout",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Version: "0.1.0",
	}
	if err := cfg.Agent.Finalize(); err != nil {
		t.Fatalf("agent finalize: %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Agent == nil {
		t.Error("Agent is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewMissingAPIKey(t *testing.T) {
	cfg := validConfig(t)
	t.Setenv("SCOUT_AGENT_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	// Re-finalize with the key cleared so the runner config is empty.
	fresh := &config.Config{Database: cfg.Database}
	if err := fresh.Agent.Finalize(); err != nil {
		t.Fatalf("agent finalize: %v", err)
	}

	_, err := infrastructure.New(fresh)
	if err == nil {
		t.Fatal("expected error for missing agent API key")
	}
}
