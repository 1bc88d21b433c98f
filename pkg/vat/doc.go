// Package vat verifies EU VAT numbers against the European Commission VIES service.
//
// The client speaks the VIES checkVat SOAP operation and fails closed: any transport,
// HTTP, SOAP fault or decoding problem makes Verify report the number as invalid.
// Definitive answers are memoised in an expirable LRU so repeated checkout attempts do not
// hit VIES again.
//
//	client := vat.New(vat.Config{CacheTTL: time.Hour})
//	if !client.Verify(ctx, "IE", "6388047V") {
//		// reject the number
//	}
//
// Use Check when the caller needs the registered name and address or the underlying error.
package vat
