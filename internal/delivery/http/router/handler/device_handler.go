package handler

import (
	"log/slog"
	"net/http"

	"portal/internal/delivery/http/middleware"
	"portal/internal/delivery/http/response"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	DeviceUC usecase.DeviceUsecase
	Logger   *slog.Logger
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
	logger   *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		deviceUC: params.DeviceUC,
		logger:   params.Logger,
	}
}

// RememberMeRequest represents the remember-me toggle
type RememberMeRequest struct {
	RememberMe bool `json:"rememberMe"`
}

// List returns the recent logins, oldest first.
func (h *DeviceHandler) List(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	devices, err := h.deviceUC.List(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, devices, "")
}

// Remove forgets one device record.
func (h *DeviceHandler) Remove(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.deviceUC.Remove(c.Request().Context(), owner, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetRememberMe returns the stored flag.
func (h *DeviceHandler) GetRememberMe(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	remember, err := h.deviceUC.GetRememberMe(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, RememberMeRequest{RememberMe: remember}, "")
}

// SetRememberMe stores the flag.
func (h *DeviceHandler) SetRememberMe(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req RememberMeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid remember-me input")
	}

	if err := h.deviceUC.SetRememberMe(c.Request().Context(), owner, req.RememberMe); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, req, "")
}
