package config

import (
	"reflect"
	"strings"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка email из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " Admin@example.com, ,USER@Example.com ")

	got := parseCSVEnv("ADMIN_EMAILS")
	want := []string{"admin@example.com", "user@example.com"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseListEnvKeepsCase проверяет, что origins не приводятся к нижнему регистру.
func TestParseListEnvKeepsCase(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://Trips.example.com, http://localhost:3000")

	got := parseListEnv("CORS_ALLOWED_ORIGINS", nil)
	want := []string{"https://Trips.example.com", "http://localhost:3000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseBoolEnv проверяет разбор булевых значений.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("DB_AUTO_MIGRATE", "false")
	if got, err := parseBoolEnv("DB_AUTO_MIGRATE", true); err != nil || got {
		t.Fatalf("expected false, got %v (%v)", got, err)
	}

	t.Setenv("DB_AUTO_MIGRATE", "maybe")
	if _, err := parseBoolEnv("DB_AUTO_MIGRATE", true); err == nil {
		t.Fatal("expected error for invalid boolean")
	}
}

// TestLoadDefaults проверяет значения по умолчанию для Groq.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "groq")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AI.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model: %s", cfg.AI.Model)
	}
	if cfg.AI.APIKey != "groq-key" {
		t.Fatalf("expected provider key fallback, got %q", cfg.AI.APIKey)
	}
	if cfg.AI.MaxOutputTokens != 4000 {
		t.Fatalf("unexpected max tokens: %d", cfg.AI.MaxOutputTokens)
	}
	if !strings.HasPrefix(cfg.Database.MigrateURL(), "pgx5://") {
		t.Fatalf("unexpected migrate url: %s", cfg.Database.MigrateURL())
	}
}

// TestLoadUnknownProvider проверяет ошибку для неизвестного провайдера.
func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
