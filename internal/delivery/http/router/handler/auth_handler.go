package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"portal/internal/delivery/http/middleware"
	"portal/internal/delivery/http/response"
	"portal/internal/delivery/http/validator"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC         usecase.AuthUsecase
	RegistrationUC usecase.RegistrationUsecase
	Logger         *slog.Logger
}

// AuthHandler serves sign-up, login and logout.
type AuthHandler struct {
	authUC         usecase.AuthUsecase
	registrationUC usecase.RegistrationUsecase
	logger         *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:         params.AuthUC,
		registrationUC: params.RegistrationUC,
		logger:         params.Logger,
	}
}

// RegisterRequest is the sign-up form plus the reporting client's platform.
type RegisterRequest struct {
	entity.RegistrationForm
	Platform string `json:"platform"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe *bool  `json:"rememberMe"`
	Platform   string `json:"platform"`
}

// ValidationResult reports the field errors of one form step.
type ValidationResult struct {
	Valid  bool               `json:"valid"`
	Errors entity.FieldErrors `json:"errors"`
}

// Register validates the whole form and creates the account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if fields := h.registrationUC.Validate(req.RegistrationForm, usecase.RegistrationStepAll); !fields.Empty() {
		return domainerrors.NewValidationError(fields)
	}

	output, err := h.authUC.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.FullName(),
		Email:    req.Email,
		Password: req.Password,
		Client:   clientInfo(c, req.Platform),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "User registered successfully")
}

// ValidateStep checks one step of the sign-up form without creating anything.
func (h *AuthHandler) ValidateStep(c echo.Context) error {
	step := usecase.RegistrationStepAll
	if raw := c.QueryParam("step"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < usecase.RegistrationStepAll || n > usecase.RegistrationStepAccount {
			return response.BadRequest(c, "INVALID_STEP", "step must be 0, 1 or 2")
		}
		step = n
	}

	var form entity.RegistrationForm
	if err := c.Bind(&form); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	fields := h.registrationUC.Validate(form, step)

	return response.Success(c, http.StatusOK, ValidationResult{Valid: fields.Empty(), Errors: fields}, "")
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.Fields(err))
	}

	output, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
		Client:     clientInfo(c, req.Platform),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Logout ends the session the token is bound to.
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid session in token")
	}

	if err := h.authUC.Logout(c.Request().Context(), sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out")
}

func clientInfo(c echo.Context, platform string) *usecase.DeviceInfo {
	return &usecase.DeviceInfo{
		UserAgent: c.Request().UserAgent(),
		Platform:  platform,
	}
}
