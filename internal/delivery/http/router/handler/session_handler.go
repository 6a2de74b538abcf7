package handler

import (
	"net/http"

	"portal/internal/delivery/http/middleware"
	"portal/internal/delivery/http/response"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler exposes the inactivity state of the caller's session.
type SessionHandler struct {
	sessions usecase.SessionUsecase
}

// NewSessionHandler is the constructor for SessionHandler
func NewSessionHandler(sessions usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Status reports the session state. Polling it never extends the session.
func (h *SessionHandler) Status(c echo.Context) error {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid session in token")
	}

	status, err := h.sessions.Status(c.Request().Context(), sessionID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, status, "")
}

// Activity answers a heartbeat. The auth middleware has already recorded the activity.
func (h *SessionHandler) Activity(c echo.Context) error {
	return h.Status(c)
}
