package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/currency"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/repository"
)

type AuthHandler struct {
	Users  *repository.UserRepository
	Tokens *repository.RefreshTokenRepository
	Issuer *auth.Issuer
}

// NewAuthHandler создает обработчик авторизации.
func NewAuthHandler(users *repository.UserRepository, tokens *repository.RefreshTokenRepository, issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Issuer: issuer}
}

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthUser struct {
	ID       uuid.UUID     `json:"id"`
	Email    string        `json:"email"`
	Name     *string       `json:"name,omitempty"`
	Currency currency.Code `json:"currency"`
}

type AuthResponse struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
	User            AuthUser  `json:"user"`
}

type UserResponse struct {
	User AuthUser `json:"user"`
}

// Register регистрирует пользователя и выдает токены.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	email := normalizeEmail(req.Email)
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return serverError(c)
	}

	user, err := h.Users.Create(c.Request().Context(), email, passwordHash, trimmedOrNil(req.Name))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return conflict(c, "user already exists")
		}
		return serverError(c)
	}

	response, err := h.issue(c.Request().Context(), user)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusCreated, response)
}

// Login выполняет вход по email и паролю.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	user, err := h.Users.GetByEmail(c.Request().Context(), normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return unauthorized(c)
	}

	response, err := h.issue(c.Request().Context(), user)
	if err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, response)
}

// Refresh меняет refresh-токен на новую пару; старый токен отзывается.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	ctx := c.Request().Context()
	stored, userID, err := h.lookupRefresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, errRejected) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	tokens, err := h.Issuer.Issue(user.ID)
	if err != nil {
		return serverError(c)
	}

	err = h.Tokens.Rotate(ctx, stored.ID, refreshRecord(user.ID, tokens))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c)
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, authResponse(user, tokens))
}

// Logout отзывает refresh-токен; повторный вызов тоже успешен.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if message, ok := decodeRequest(c, &req); !ok {
		return badRequest(c, message)
	}

	claims, err := h.Issuer.Verify(req.RefreshToken, auth.KindRefresh)
	if err != nil {
		return unauthorized(c)
	}
	refreshID, err := claims.TokenID()
	if err != nil {
		return unauthorized(c)
	}

	if err := h.Tokens.Revoke(c.Request().Context(), refreshID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return serverError(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me возвращает данные текущего пользователя.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return userLookupError(c, err)
	}
	return c.JSON(http.StatusOK, UserResponse{User: toAuthUser(user)})
}

var errRejected = errors.New("refresh token rejected")

func (h *AuthHandler) lookupRefresh(ctx context.Context, raw string) (models.RefreshToken, uuid.UUID, error) {
	claims, err := h.Issuer.Verify(raw, auth.KindRefresh)
	if err != nil {
		return models.RefreshToken{}, uuid.Nil, errRejected
	}
	refreshID, err := claims.TokenID()
	if err != nil {
		return models.RefreshToken{}, uuid.Nil, errRejected
	}
	userID, err := claims.UserID()
	if err != nil {
		return models.RefreshToken{}, uuid.Nil, errRejected
	}

	stored, err := h.Tokens.GetByID(ctx, refreshID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return stored, uuid.Nil, errRejected
		}
		return stored, uuid.Nil, err
	}

	switch {
	case stored.RevokedAt != nil,
		time.Now().After(stored.ExpiresAt),
		stored.UserID != userID,
		!auth.TokenMatches(stored.TokenHash, raw):
		return stored, uuid.Nil, errRejected
	}
	return stored, userID, nil
}

func (h *AuthHandler) issue(ctx context.Context, user models.User) (AuthResponse, error) {
	tokens, err := h.Issuer.Issue(user.ID)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := h.Tokens.Create(ctx, refreshRecord(user.ID, tokens)); err != nil {
		return AuthResponse{}, err
	}
	return authResponse(user, tokens), nil
}

func userLookupError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, "user not found")
	}
	return serverError(c)
}

func refreshRecord(userID uuid.UUID, tokens auth.Tokens) models.RefreshToken {
	return models.RefreshToken{
		ID:        tokens.RefreshID,
		UserID:    userID,
		TokenHash: auth.HashToken(tokens.Refresh),
		ExpiresAt: tokens.RefreshExpiresAt,
	}
}

func authResponse(user models.User, tokens auth.Tokens) AuthResponse {
	return AuthResponse{
		AccessToken:     tokens.Access,
		RefreshToken:    tokens.Refresh,
		AccessExpiresAt: tokens.AccessExpiresAt,
		User:            toAuthUser(user),
	}
}

func toAuthUser(user models.User) AuthUser {
	return AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Currency: user.Currency,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
