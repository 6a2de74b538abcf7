package impl

import (
	"net/url"
	"strconv"
	"strings"

	"portal/config"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/usecase"
)

const defaultBasePrice = 10000

// basePrices is checked in order; the first keyword found in the title wins.
var basePrices = []struct {
	keyword string
	price   float64
}{
	{"Motor", 15000},
	{"Family", 20000},
	{"Seniors", 25000},
}

var quoteTiers = []struct {
	name       string
	multiplier float64
	coverage   string
}{
	{"Basic Cover", 1, "Essential coverage"},
	{"Standard Cover", 1.5, "Comprehensive coverage with added benefits"},
	{"Premium Cover", 2.5, "Full coverage with all benefits included"},
}

type quoteService struct {
	qrcode  service.QRCodeService
	baseURL string
}

// NewQuoteService creates a new quote service instance
func NewQuoteService(qrcode service.QRCodeService, cfg *config.Config) usecase.QuoteUsecase {
	return &quoteService{
		qrcode:  qrcode,
		baseURL: strings.TrimRight(cfg.QRCode.BaseURL, "/"),
	}
}

func (srv *quoteService) Options(productTitle string) []entity.QuoteOption {
	base := basePrice(productTitle)

	options := make([]entity.QuoteOption, 0, len(quoteTiers))
	for i, tier := range quoteTiers {
		options = append(options, entity.QuoteOption{
			ID:       i + 1,
			Name:     tier.name,
			Price:    base * tier.multiplier,
			Currency: entity.QuoteCurrency,
			Coverage: tier.coverage,
		})
	}

	return options
}

// QRCode encodes a link to the chosen tier of the product quote.
func (srv *quoteService) QRCode(productTitle string, optionID int) ([]byte, error) {
	if strings.TrimSpace(productTitle) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("product is required")
	}
	if optionID < 1 || optionID > len(quoteTiers) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown quote option " + strconv.Itoa(optionID))
	}

	query := url.Values{}
	query.Set("product", productTitle)
	query.Set("option", strconv.Itoa(optionID))

	png, err := srv.qrcode.Generate(srv.baseURL + "?" + query.Encode())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate quote QR code")
	}

	return png, nil
}

func basePrice(productTitle string) float64 {
	for _, bp := range basePrices {
		if strings.Contains(productTitle, bp.keyword) {
			return bp.price
		}
	}

	return defaultBasePrice
}
