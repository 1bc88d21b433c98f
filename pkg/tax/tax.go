package tax

import "strings"

// Exemption is the customer tax-exempt status understood by the payment processor.
type Exemption string

const (
	// ExemptUnknown is returned when no country is known.
	ExemptUnknown Exemption = ""
	ExemptNone    Exemption = "none"
	ExemptReverse Exemption = "reverse"
	ExemptExempt  Exemption = "exempt"
)

// TypeEUVAT is the processor tax-ID type for EU VAT numbers.
const TypeEUVAT = "eu_vat"

// DefaultRateKey is the RateTable key used when the country has no entry of its own.
const DefaultRateKey = "default"

// ID is a customer tax identifier.
type ID struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// RateTable maps country codes to processor tax-rate identifiers.
type RateTable map[string]string

// Decision is the outcome of classifying a sale.
type Decision struct {
	Exempt Exemption `json:"exempt"`
	ID     *ID       `json:"tax_id,omitempty"`
	Rate   string    `json:"rate,omitempty"`
}

// ClassifyExemption returns the exemption status for a customer in country.
// The origin country is always taxed.
func ClassifyExemption(country, vatNumber, taxOrigin string) Exemption {
	if country == "" {
		return ExemptUnknown
	}
	if !IsEU(country) {
		return ExemptExempt
	}
	if strings.EqualFold(country, taxOrigin) || vatNumber == "" {
		return ExemptNone
	}
	return ExemptReverse
}

// ClassifyTaxID returns the EU VAT tax ID for the customer, or nil when none applies.
func ClassifyTaxID(country, vatNumber string) *ID {
	if vatNumber == "" || !IsEU(country) {
		return nil
	}
	return &ID{Type: TypeEUVAT, Value: vatNumber}
}

// ClassifyRate looks up the tax rate for country, falling back to the default entry.
// An empty string means no rate applies.
func ClassifyRate(country string, table RateTable) string {
	if table == nil {
		return ""
	}
	if rate, ok := table[country]; ok {
		return rate
	}
	return table[DefaultRateKey]
}

// Classify composes ClassifyExemption, ClassifyTaxID and ClassifyRate.
func Classify(country, vatNumber, taxOrigin string, table RateTable) Decision {
	return Decision{
		Exempt: ClassifyExemption(country, vatNumber, taxOrigin),
		ID:     ClassifyTaxID(country, vatNumber),
		Rate:   ClassifyRate(country, table),
	}
}

// HasRate reports whether a tax rate applies.
func (d Decision) HasRate() bool {
	return d.Rate != ""
}
