package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/auth"
	"example.com/ai-travel-planner/internal/notifications"
)

const keepAliveInterval = 25 * time.Second

type NotificationHandler struct {
	Hub *notifications.Hub
}

// Stream держит SSE-поток событий пользователя до отключения клиента.
func (h *NotificationHandler) Stream(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	res := c.Response()
	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}
	// поток живет дольше WriteTimeout сервера
	_ = http.NewResponseController(res.Writer).SetWriteDeadline(time.Time{})

	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	events, unsubscribe := h.Hub.Subscribe(userID)
	defer unsubscribe()

	if err := notifications.WriteComment(res, "connected"); err != nil {
		return nil
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := notifications.WriteComment(res, "ping"); err != nil {
				return nil
			}
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := notifications.WriteEvent(res, event); err != nil {
				return nil
			}
		}
		flusher.Flush()
	}
}
