package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "portal/internal/delivery/context"
	"portal/internal/delivery/http/response"
	"portal/internal/domain/service"
	"portal/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Keys set on echo.Context by Authenticate.
const (
	ContextKeyUserID    = "userID"
	ContextKeySessionID = "sessionID"
)

// AuthMiddleware validates bearer tokens and ties each request to its tracked session.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	sessions usecase.SessionUsecase
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, sessions usecase.SessionUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, sessions: sessions, logger: logger}
}

// Authenticate validates the token and records the request as session activity.
// An expired session answers SESSION_EXPIRED with the redirect notice.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next, true)
}

// Identify validates the token without counting the request as activity.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return m.authenticate(next, false)
}

func (m *AuthMiddleware) authenticate(next echo.HandlerFunc, touch bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}
		if claims.UserID == uuid.Nil || claims.SessionID == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Token is not bound to a session")
		}

		ctx := c.Request().Context()
		if touch {
			if err := m.sessions.Touch(ctx, claims.SessionID); err != nil {
				return response.HandleAppError(c, err)
			}
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeySessionID, claims.SessionID)

		ctx = deliverycontext.WithSession(ctx, m.logger, deliverycontext.Session{
			UserID:    claims.UserID.String(),
			SessionID: claims.SessionID,
		})
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// GetUserID returns the authenticated user.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)

	return userID, ok
}

// GetOwner returns the storage namespace of the authenticated user.
func GetOwner(c echo.Context) (string, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return "", false
	}

	return userID.String(), true
}

// GetSessionID returns the tracked session of the request.
func GetSessionID(c echo.Context) (string, bool) {
	sessionID, ok := c.Get(ContextKeySessionID).(string)

	return sessionID, ok && sessionID != ""
}
