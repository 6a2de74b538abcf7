package handler

import (
	"net/http"
	"strconv"

	"portal/internal/delivery/http/response"
	"portal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// QuoteHandler serves the cover tiers and their QR codes.
type QuoteHandler struct {
	uc usecase.QuoteUsecase
}

// NewQuoteHandler is the constructor for QuoteHandler
func NewQuoteHandler(uc usecase.QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Options lists the tiers for ?product=.
func (h *QuoteHandler) Options(c echo.Context) error {
	product := c.QueryParam("product")
	if product == "" {
		return response.BadRequest(c, "INVALID_PRODUCT", "product is required")
	}

	return response.Success(c, http.StatusOK, h.uc.Options(product), "")
}

// QRCode renders a PNG for ?product=&option=.
func (h *QuoteHandler) QRCode(c echo.Context) error {
	option, err := strconv.Atoi(c.QueryParam("option"))
	if err != nil {
		return response.BadRequest(c, "INVALID_OPTION", "option must be a number")
	}

	png, err := h.uc.QRCode(c.QueryParam("product"), option)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
