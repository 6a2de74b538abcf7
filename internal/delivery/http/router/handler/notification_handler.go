package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/http/middleware"
	"portal/internal/delivery/http/response"
	"portal/internal/delivery/http/validator"
	"portal/internal/domain/entity"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// NotificationHandler holds dependencies for notification-related handlers
type NotificationHandler struct {
	uc     usecase.NotificationUsecase
	logger *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(uc usecase.NotificationUsecase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		uc:     uc,
		logger: logger,
	}
}

// AddNotificationRequest represents the request body for adding a notification
type AddNotificationRequest struct {
	Type    entity.NotificationType `json:"type" validate:"required,oneof=info success warning error"`
	Title   string                  `json:"title" validate:"required,max=200"`
	Message string                  `json:"message" validate:"max=2000"`
}

// DesktopPermissionRequest carries the user's answer to the permission prompt.
type DesktopPermissionRequest struct {
	Permission entity.DesktopPermission `json:"permission" validate:"required,oneof=granted denied default"`
}

// UnreadCountResponse is the badge count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	list, err := h.uc.List(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, list, "")
}

// Add stores a new notification at the head of the list.
func (h *NotificationHandler) Add(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req AddNotificationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid notification input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.Fields(err))
	}

	n, err := h.uc.Add(c.Request().Context(), owner, entity.NotificationDraft{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, n, "Notification added")
}

// UnreadCount returns how many notifications are unread.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	count, err := h.uc.UnreadCount(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, UnreadCountResponse{Unread: count}, "")
}

// MarkRead marks one notification as read. Unknown IDs are ignored.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	return h.mutate(c, func(owner string) error {
		return h.uc.MarkRead(c.Request().Context(), owner, c.Param("id"))
	})
}

// MarkAllRead marks every notification as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	return h.mutate(c, func(owner string) error {
		return h.uc.MarkAllRead(c.Request().Context(), owner)
	})
}

// Remove deletes one notification. Unknown IDs are ignored.
func (h *NotificationHandler) Remove(c echo.Context) error {
	return h.mutate(c, func(owner string) error {
		return h.uc.Remove(c.Request().Context(), owner, c.Param("id"))
	})
}

// Clear empties the list.
func (h *NotificationHandler) Clear(c echo.Context) error {
	return h.mutate(c, func(owner string) error {
		return h.uc.Clear(c.Request().Context(), owner)
	})
}

// GetPreferences returns the channel toggles.
func (h *NotificationHandler) GetPreferences(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	prefs, err := h.uc.GetPreferences(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, prefs, "")
}

// UpdatePreferences merges the supplied toggles into the stored ones.
func (h *NotificationHandler) UpdatePreferences(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var patch entity.PreferencesPatch
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid preferences input")
	}

	prefs, err := h.uc.UpdatePreferences(c.Request().Context(), owner, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, prefs, "Preferences updated")
}

// GetDesktopPermission returns the stored permission state.
func (h *NotificationHandler) GetDesktopPermission(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	perm, err := h.uc.GetDesktopPermission(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, DesktopPermissionRequest{Permission: perm}, "")
}

// SetDesktopPermission records the answer and flushes or drops held notifications.
func (h *NotificationHandler) SetDesktopPermission(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req DesktopPermissionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid permission input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.Fields(err))
	}

	if err := h.uc.SetDesktopPermission(c.Request().Context(), owner, req.Permission); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, req, "Permission updated")
}

func (h *NotificationHandler) mutate(c echo.Context, fn func(owner string) error) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := fn(owner); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
