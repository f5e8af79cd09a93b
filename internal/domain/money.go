package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a parsed display price such as "KES 1,500". The catalog stores
// prices as display strings, so the purchase engine parses the magnitude,
// multiplies, and renders the total back in the same convention.
type Price struct {
	Currency string
	Amount   decimal.Decimal
}

const defaultCurrency = "KES"

// ParsePrice splits a display price into currency code and numeric amount.
// Accepts "KES 1,500", "KES 1500.50", or a bare number (currency defaults
// to KES). Negative amounts are rejected.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}, ErrInvalidPrice
	}

	currency := defaultCurrency
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		prefix := s[:idx]
		if !isCurrencyCode(prefix) {
			return Price{}, ErrInvalidPrice
		}
		currency = prefix
		s = strings.TrimSpace(s[idx+1:])
	}

	s = strings.ReplaceAll(s, ",", "")
	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return Price{}, ErrInvalidPrice
	}
	return Price{Currency: currency, Amount: amount}, nil
}

// Mul scales the price by a ticket quantity.
func (p Price) Mul(quantity int) Price {
	return Price{
		Currency: p.Currency,
		Amount:   p.Amount.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// String renders the price in the stored display convention: currency code,
// space, thousands-grouped magnitude. Whole amounts omit the fraction.
func (p Price) String() string {
	amount := p.Amount
	frac := ""
	if !amount.Equal(amount.Truncate(0)) {
		fixed := amount.StringFixed(2)
		if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
			frac = fixed[dot:]
		}
		amount = amount.Truncate(0)
	}
	return p.Currency + " " + groupThousands(amount.String()) + frac
}

func isCurrencyCode(s string) bool {
	if len(s) < 2 || len(s) > 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
