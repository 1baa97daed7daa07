package culqi

import (
	"io"
	"log/slog"
	"testing"

	"github.com/edukar/edukar-store/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{Culqi: config.CulqiConfig{BaseURL: "http://example.com", SecretKey: "sk"}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected client instance")
	}

	cfg.Culqi.BaseURL = "relative"
	if _, err := newClient(clientParams{Config: cfg, Logger: logger}); err == nil {
		t.Fatal("expected error for relative url")
	}
}
