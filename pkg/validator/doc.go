// Package validator provides declarative field rules for checkout input.
//
// Rules are built with constructor functions and evaluated together by Apply, which
// returns ValidationErrors listing every failing field:
//
//	err := validator.Apply(
//		validator.RequiredString("email", in.Email),
//		validator.ValidEmail("email", in.Email),
//		validator.ValidCountryCode("country", in.Country),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		// errs.Details() -> map[field][]message
//	}
package validator
