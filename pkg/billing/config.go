package billing

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrymomot/billingkit/pkg/tax"
)

// maxTrialDays is the longest trial the processor accepts.
const maxTrialDays = 730

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// Config lists every option the Manager recognises.
type Config struct {
	// TaxOrigin is the seller's country. Sales to it are always taxed.
	TaxOrigin string `env:"BILLING_TAX_ORIGIN"`
	// TaxRates maps country codes to processor tax-rate ids, with a "default" fallback.
	// Env format: "SE:txr_se,default:txr_eu".
	TaxRates map[string]string `env:"BILLING_TAX_RATES"`
	// TrialDays applies to newly created subscriptions when the caller does not set one.
	TrialDays int `env:"BILLING_TRIAL_DAYS" envDefault:"0"`
	// Plan is the default plan (price) id offered by the checkout.
	Plan string `env:"BILLING_PLAN_ID"`
}

// StripeConfig holds Stripe credentials.
type StripeConfig struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY,required"`
	PublishableKey string `env:"STRIPE_PUBLIC_KEY"`
}

// Validate checks option values.
func (c Config) Validate() error {
	var errs []error

	if c.TaxOrigin != "" && !countryCodeRegex.MatchString(c.TaxOrigin) {
		errs = append(errs, fmt.Errorf("tax origin %q is not a two-letter country code", c.TaxOrigin))
	}
	for country, rate := range c.TaxRates {
		if country != tax.DefaultRateKey && !countryCodeRegex.MatchString(country) {
			errs = append(errs, fmt.Errorf("tax rate key %q is not a country code or %q", country, tax.DefaultRateKey))
		}
		if rate == "" {
			errs = append(errs, fmt.Errorf("tax rate for %q is empty", country))
		}
	}
	if c.TrialDays < 0 || c.TrialDays > maxTrialDays {
		errs = append(errs, fmt.Errorf("trial days %d out of range 0..%d", c.TrialDays, maxTrialDays))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// RateTable returns the configured tax rates as a tax.RateTable.
func (c Config) RateTable() tax.RateTable {
	if c.TaxRates == nil {
		return nil
	}
	return tax.RateTable(c.TaxRates)
}
