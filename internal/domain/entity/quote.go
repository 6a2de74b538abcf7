package entity

// QuoteCurrency is the currency every quote is priced in.
const QuoteCurrency = "KES"

// QuoteOption is one cover tier offered for a product.
type QuoteOption struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Coverage string  `json:"coverage"`
}
