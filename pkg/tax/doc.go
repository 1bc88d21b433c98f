// Package tax decides how a sale to a customer is taxed.
//
// The classifier is a set of pure functions. Given the customer's country, an optional VAT
// number, the seller's tax origin and a table of processor tax-rate identifiers, it returns
// the exemption status, the tax ID to attach to the customer, and the tax rate to apply.
//
// Rules:
//   - Sales to the origin country are always taxed.
//   - Sales to another EU member state are taxed unless the buyer supplies a VAT number,
//     in which case the invoice is reverse charged.
//   - Sales outside the EU are exempt.
//
// # Usage
//
//	rates := tax.RateTable{"SE": "txr_se", tax.DefaultRateKey: "txr_eu"}
//	d := tax.Classify("DE", "DE123456789", "SE", rates)
//	// d.Exempt == tax.ExemptReverse
//	// d.ID     == &tax.ID{Type: "eu_vat", Value: "DE123456789"}
//	// d.Rate   == "txr_eu"
//
// Nothing here is cached. Callers recompute the decision on every mutation.
package tax
