package impl

import (
	"testing"

	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/infra/qrcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingQRCode records the encoded content instead of rendering it.
type capturingQRCode struct {
	content string
}

func (c *capturingQRCode) Generate(content string) ([]byte, error) {
	c.content = content

	return []byte("png"), nil
}

func TestQuoteService_OptionsByProduct(t *testing.T) {
	svc := NewQuoteService(&capturingQRCode{}, newTestConfig())

	cases := []struct {
		title string
		base  float64
	}{
		{"Motor Insurance", 15000},
		{"Family Health Cover", 20000},
		{"Seniors Medical", 25000},
		{"Travel", 10000},
		{"Motor Family Bundle", 15000},
	}

	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			options := svc.Options(tc.title)
			require.Len(t, options, 3)

			assert.Equal(t, entity.QuoteOption{ID: 1, Name: "Basic Cover", Price: tc.base, Currency: "KES", Coverage: "Essential coverage"}, options[0])
			assert.Equal(t, entity.QuoteOption{ID: 2, Name: "Standard Cover", Price: tc.base * 1.5, Currency: "KES", Coverage: "Comprehensive coverage with added benefits"}, options[1])
			assert.Equal(t, entity.QuoteOption{ID: 3, Name: "Premium Cover", Price: tc.base * 2.5, Currency: "KES", Coverage: "Full coverage with all benefits included"}, options[2])
		})
	}
}

func TestQuoteService_QRCodeEncodesQuoteLink(t *testing.T) {
	qr := &capturingQRCode{}
	svc := NewQuoteService(qr, newTestConfig())

	png, err := svc.QRCode("Motor Insurance", 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	assert.Equal(t, "https://portal.example.com/quotes?option=2&product=Motor+Insurance", qr.content)
}

func TestQuoteService_QRCodeRejectsBadInput(t *testing.T) {
	svc := NewQuoteService(&capturingQRCode{}, newTestConfig())

	_, err := svc.QRCode("Motor", 4)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.QRCode(" ", 1)
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestQuoteService_QRCodeRendersPNG(t *testing.T) {
	svc := NewQuoteService(qrcode.NewQRCodeService(128, "M"), newTestConfig())

	png, err := svc.QRCode("Family", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
