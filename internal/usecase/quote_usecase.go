package usecase

import "portal/internal/domain/entity"

// QuoteUsecase prices the cover tiers shown on the dashboard.
type QuoteUsecase interface {
	// Options returns the Basic, Standard and Premium tiers for a product title.
	Options(productTitle string) []entity.QuoteOption

	// QRCode renders a PNG linking to one tier of a product quote.
	QRCode(productTitle string, optionID int) ([]byte, error)
}
