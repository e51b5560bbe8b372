package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/config"
	"example.com/ai-travel-planner/internal/handlers"
	"example.com/ai-travel-planner/internal/notifications"
	"example.com/ai-travel-planner/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool, aiClient ai.Client) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(corsMiddleware(cfg.CORS))

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	preferencesRepo := repository.NewPreferencesRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	aiRepo := repository.NewAIRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	hub := notifications.NewHub()

	var ping func(context.Context) error
	if db != nil {
		ping = db.Ping
	}

	h := routeHandlers{
		health:  handlers.Health(ping),
		auth:    handlers.NewAuthHandler(userRepo, tokenRepo, issuer),
		profile: handlers.NewProfileHandler(userRepo, preferencesRepo),
		itineraries: &handlers.ItineraryHandler{
			Service:     ai.NewService(aiClient),
			Itineraries: itineraryRepo,
			Expenses:    expenseRepo,
			Users:       userRepo,
			Preferences: preferencesRepo,
			AIRepo:      aiRepo,
			Notifier:    hub,
			Provider:    cfg.AI.Provider,
			Model:       cfg.AI.Model,
		},
		expenses: &handlers.ExpenseHandler{
			Itineraries: itineraryRepo,
			Expenses:    expenseRepo,
			Users:       userRepo,
			Notifier:    hub,
		},
		stats:         &handlers.StatsHandler{Stats: statsRepo, Users: userRepo},
		notifications: &handlers.NotificationHandler{Hub: hub},
		admin:         &handlers.AdminHandler{Repo: adminRepo},
	}

	registerRoutes(e, h, routeMiddleware{
		user:      auth.RequireUser(issuer),
		userQuery: auth.RequireUserOrQuery(issuer),
		admin:     handlers.AdminOnly(userRepo, cfg.Admin.Emails),
		authLimit: rateLimiter(cfg.Auth.RateLimitPerMinute, cfg.Auth.RateLimitBurst),
		aiLimit:   rateLimiter(cfg.AI.RateLimitPerMinute, cfg.AI.RateLimitBurst),
	})

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				// шаблон маршрута вместо URI: токен SSE передается в query
				slog.String("path", c.Path()),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request completed", attrs...)
			return nil
		},
	})
}

func corsMiddleware(cfg config.CORSConfig) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
		MaxAge:        int((12 * time.Hour).Seconds()),
	})
}

// rateLimiter ограничивает запросы с одного IP: perMinute в минуту с запасом burst.
func rateLimiter(perMinute, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60.0),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiter(store)
}
