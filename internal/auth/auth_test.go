package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestIssuer() *Issuer {
	return NewIssuer("test-secret", "travel-planner", 15*time.Minute, 24*time.Hour)
}

// TestIssueAndVerify проверяет выпуск и разбор пары токенов.
func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()

	tokens, err := issuer.Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Verify(tokens.Access, KindAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	got, err := claims.UserID()
	if err != nil || got != userID {
		t.Fatalf("expected user %s, got %s (%v)", userID, got, err)
	}

	refresh, err := issuer.Verify(tokens.Refresh, KindRefresh)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	jti, err := refresh.TokenID()
	if err != nil || jti != tokens.RefreshID {
		t.Fatalf("expected jti %s, got %s", tokens.RefreshID, jti)
	}
}

// TestVerifyRejectsWrongKind проверяет, что refresh нельзя использовать как access.
func TestVerifyRejectsWrongKind(t *testing.T) {
	issuer := newTestIssuer()
	tokens, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(tokens.Refresh, KindAccess); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

// TestVerifyRejectsExpired проверяет отказ для просроченного токена.
func TestVerifyRejectsExpired(t *testing.T) {
	issuer := newTestIssuer()
	past := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return past }

	tokens, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Verify(tokens.Access, KindAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

// TestVerifyRejectsForeignSecret проверяет отказ для чужой подписи.
func TestVerifyRejectsForeignSecret(t *testing.T) {
	tokens, err := NewIssuer("other", "travel-planner", time.Minute, time.Hour).Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestIssuer().Verify(tokens.Access, KindAccess); err == nil {
		t.Fatal("expected error for foreign secret")
	}
}

// TestPasswordHashing проверяет bcrypt-хэширование и сверку.
func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

// TestTokenMatches проверяет сравнение хэша refresh-токена.
func TestTokenMatches(t *testing.T) {
	hash := HashToken("token-value")
	if !TokenMatches(hash, "token-value") {
		t.Fatal("expected token to match its hash")
	}
	if TokenMatches(hash, "other") {
		t.Fatal("expected mismatch")
	}
}

// TestRequireUser проверяет middleware для заголовка и query-параметра.
func TestRequireUser(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()
	tokens, err := issuer.Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := func(c echo.Context) error {
		got, ok := UserIDFromContext(c)
		if !ok || got != userID {
			t.Fatalf("expected user %s in context", userID)
		}
		return c.NoContent(http.StatusNoContent)
	}

	cases := []struct {
		name       string
		target     string
		header     string
		middleware echo.MiddlewareFunc
		wantStatus int
	}{
		{"bearer", "/", "Bearer " + tokens.Access, RequireUser(issuer), http.StatusNoContent},
		{"lowercase scheme", "/", "bearer " + tokens.Access, RequireUser(issuer), http.StatusNoContent},
		{"missing", "/", "", RequireUser(issuer), http.StatusUnauthorized},
		{"refresh as access", "/", "Bearer " + tokens.Refresh, RequireUser(issuer), http.StatusUnauthorized},
		{"query not allowed", "/?access_token=" + tokens.Access, "", RequireUser(issuer), http.StatusUnauthorized},
		{"query allowed", "/?access_token=" + tokens.Access, "", RequireUserOrQuery(issuer), http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := tc.middleware(handler)(c)
			status := rec.Code
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}
			if status != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, status)
			}
		})
	}
}
