package repository

import (
	"testing"

	"github.com/google/uuid"
)

// TestAIRequestFilterWhere проверяет нумерацию плейсхолдеров в фильтре логов.
func TestAIRequestFilterWhere(t *testing.T) {
	where, args := AIRequestFilter{}.where()
	if where != "" || len(args) != 0 {
		t.Fatalf("empty filter: got %q %v", where, args)
	}

	userID := uuid.New()
	success := false
	provider := "groq"
	where, args = AIRequestFilter{UserID: &userID, Success: &success, Provider: &provider}.where()

	want := " WHERE user_id = $1 AND success = $2 AND provider = $3"
	if where != want {
		t.Fatalf("expected %q, got %q", want, where)
	}
	if len(args) != 3 || args[0] != userID || args[1] != false || args[2] != "groq" {
		t.Fatalf("unexpected args: %v", args)
	}
}

// TestAIRequestFilterWhereSingle проверяет фильтр только по провайдеру.
func TestAIRequestFilterWhereSingle(t *testing.T) {
	provider := "gemini"
	where, args := AIRequestFilter{Provider: &provider}.where()
	if where != " WHERE provider = $1" {
		t.Fatalf("unexpected where: %q", where)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
}
