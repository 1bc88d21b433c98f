package billing

import (
	"fmt"
	"strings"
	"time"
)

var brandNames = map[string]string{
	"amex":             "American Express",
	"cartes_bancaires": "Cartes Bancaires",
	"diners":           "Diners Club",
	"discover":         "Discover",
	"eftpos_au":        "EFTPOS Australia",
	"interac":          "Interac",
	"jcb":              "JCB",
	"mastercard":       "MasterCard",
	"unionpay":         "UnionPay",
	"visa":             "Visa",
}

// Card is a normalized payment card. Processor adapters build it from whatever card
// shape they receive.
type Card struct {
	Brand    string
	Last4    string
	ExpMonth int
	ExpYear  int
}

// NewCard builds a Card, lower-casing the brand code.
func NewCard(brand, last4 string, expMonth, expYear int) *Card {
	return &Card{Brand: normalizeBrand(brand), Last4: last4, ExpMonth: expMonth, ExpYear: expYear}
}

// BrandName returns the display name for the card brand.
func (c Card) BrandName() string {
	if name, ok := brandNames[c.Brand]; ok {
		return name
	}
	if c.Brand == "" || c.Brand == "unknown" {
		return "Card"
	}
	return c.Brand
}

// Summary renders "{brand} ends in {last4} (Exp: MM/YY)".
func (c Card) Summary() string {
	return fmt.Sprintf("%s ends in %s (Exp: %02d/%02d)", c.BrandName(), c.Last4, c.ExpMonth, c.ExpYear%100)
}

func (c Card) Expired(now time.Time) bool {
	return IsCardExpired(c.ExpMonth, c.ExpYear, now)
}

// IsCardExpired reports whether a card expiring at the end of month/year is past due at now.
func IsCardExpired(month, year int, now time.Time) bool {
	curYear, curMonth := now.Year(), int(now.Month())
	if year != curYear {
		return year < curYear
	}
	return month < curMonth
}

// ParsedCard is the card as shown in a ParsedSubscription.
type ParsedCard struct {
	Brand   string `json:"brand"`
	Last4   string `json:"last4"`
	Month   int    `json:"exp_month"`
	Year    int    `json:"exp_year"`
	Summary string `json:"summary"`
	Expired bool   `json:"expired"`
}

func parseCard(c *Card, now time.Time) *ParsedCard {
	if c == nil {
		return nil
	}
	return &ParsedCard{
		Brand:   c.Brand,
		Last4:   c.Last4,
		Month:   c.ExpMonth,
		Year:    c.ExpYear,
		Summary: c.Summary(),
		Expired: c.Expired(now),
	}
}

// Legacy sources report brands as display names ("Visa", "American Express").
func normalizeBrand(brand string) string {
	switch brand {
	case "American Express":
		return "amex"
	case "Diners Club":
		return "diners"
	case "MasterCard":
		return "mastercard"
	case "Unknown":
		return "unknown"
	}
	return strings.ToLower(brand)
}

// maxDisplayTimestamp is the last second of year 9999.
const maxDisplayTimestamp = 253402300799

// FormatUnixDate renders a unix timestamp as "Jan 2, 2006" in UTC.
// Zero, negative and out-of-range timestamps render as "".
func FormatUnixDate(ts int64) string {
	if ts <= 0 || ts > maxDisplayTimestamp {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("Jan 2, 2006")
}
