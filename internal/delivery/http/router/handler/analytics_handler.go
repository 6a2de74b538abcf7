package handler

import (
	"net/http"
	"strconv"

	"portal/internal/delivery/http/response"
	"portal/internal/delivery/http/validator"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AnalyticsHandler serves the dashboard series, its summary and CSV exports.
type AnalyticsHandler struct {
	uc usecase.AnalyticsUsecase
}

// NewAnalyticsHandler is the constructor for AnalyticsHandler
func NewAnalyticsHandler(uc usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// ExportRequest represents the request body for a CSV export
type ExportRequest struct {
	Days     int    `json:"days" validate:"min=0"`
	Filename string `json:"filename" validate:"max=128"`
}

// SummaryResponse pairs the series with its aggregate.
type SummaryResponse struct {
	Data    []entity.DailyMetric `json:"data"`
	Summary entity.SummaryStats  `json:"summary"`
}

// Data returns ?days= days of metrics, oldest first.
func (h *AnalyticsHandler) Data(c echo.Context) error {
	data, err := h.series(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, data, "")
}

// Summary returns the series together with its totals and daily averages.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	data, err := h.series(c)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, SummaryResponse{Data: data, Summary: h.uc.Summary(data)}, "")
}

// Export writes a fresh series as CSV to the export bucket.
func (h *AnalyticsHandler) Export(c echo.Context) error {
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid export input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, validator.Fields(err))
	}

	ctx := c.Request().Context()
	data, err := h.uc.Data(ctx, req.Days)
	if err != nil {
		return errors.WithStack(err)
	}

	out, err := h.uc.ExportCSV(ctx, data, req.Filename)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, out, "Export stored")
}

func (h *AnalyticsHandler) series(c echo.Context) ([]entity.DailyMetric, error) {
	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("days must be a non-negative number")
		}
		days = n
	}

	data, err := h.uc.Data(c.Request().Context(), days)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}
