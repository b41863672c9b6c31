// Package domain holds the price-record model and the price format rules.
package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	catalogDomain "github.com/grondverzet/machinery-cms/internal/catalog/domain"
)

var ErrInvalidPriceFormat = errors.New("invalid price format: must be a non-negative number with at most 2 decimals (e.g. 1234.56)")

// PriceRecord is a price quotation for one product. A nil CustomerID makes
// it the general list price; a set CustomerID restricts visibility to that
// customer. A nil ValidUntil means open-ended.
type PriceRecord struct {
	ID            string     `json:"id"`
	ProductID     string     `json:"product_id"`
	Price         string     `json:"price"`
	CustomerID    *string    `json:"visible_for_customer_id,omitempty"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Valid reports whether the record may satisfy a resolution at the given
// instant. Expiry is strict: a record expiring exactly now is no longer
// valid.
func (p PriceRecord) Valid(now time.Time) bool {
	return p.ValidUntil == nil || p.ValidUntil.After(now)
}

type SetPriceRequest struct {
	ProductID  string     `json:"product_id"`
	Price      string     `json:"price"`
	CustomerID *string    `json:"customer_id"`
	ValidUntil *time.Time `json:"valid_until"`
}

// PriceUpdate carries partial-update semantics for a price record.
type PriceUpdate struct {
	Price      catalogDomain.Optional[string]     `json:"price"`
	ValidUntil catalogDomain.Optional[*time.Time] `json:"valid_until"`
}

var priceFormat = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParsePrice validates the write-side price contract: non-negative, at most
// two decimal places. Violations are a domain error, never a silent
// coercion.
func ParsePrice(raw string) (decimal.Decimal, error) {
	if !priceFormat.MatchString(raw) {
		return decimal.Decimal{}, ErrInvalidPriceFormat
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, ErrInvalidPriceFormat
	}
	return d, nil
}

// CanonicalPrice renders a parsed price in the fixed two-decimal form the
// store persists ("7" and "007" both become "7.00"). The value is never
// rounded: ParsePrice already guarantees at most two decimals.
func CanonicalPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
