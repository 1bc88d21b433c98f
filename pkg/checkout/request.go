package checkout

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrymomot/billingkit/pkg/billing"
	"github.com/dmitrymomot/billingkit/pkg/validator"
	"github.com/dmitrymomot/billingkit/pkg/vat"
)

const maxBodySize = 64 << 10

// SubscriptionRequest is the POST /subscription payload, sent as JSON or as a form.
type SubscriptionRequest struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	Postcode      string `json:"postcode"`
	VAT           string `json:"vat"`
	Coupon        string `json:"coupon"`
	PaymentMethod string `json:"payment_method"`
	Plan          string `json:"plan"`
}

func decodeSubscriptionRequest(w http.ResponseWriter, r *http.Request) (SubscriptionRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req SubscriptionRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errors.Join(ErrInvalidBody, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, errors.Join(ErrInvalidBody, err)
		}
		req = SubscriptionRequest{
			Email:         r.PostForm.Get("email"),
			Name:          r.PostForm.Get("name"),
			Country:       r.PostForm.Get("country"),
			Postcode:      r.PostForm.Get("postcode"),
			VAT:           r.PostForm.Get("vat"),
			Coupon:        r.PostForm.Get("coupon"),
			PaymentMethod: r.PostForm.Get("payment_method"),
			Plan:          r.PostForm.Get("plan"),
		}
	}

	req.normalize()
	return req, nil
}

func (req *SubscriptionRequest) normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	req.Postcode = strings.TrimSpace(req.Postcode)
	req.VAT = vat.CleanNumber(req.VAT)
	req.Coupon = strings.TrimSpace(req.Coupon)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	req.Plan = strings.TrimSpace(req.Plan)
}

// validate checks field formats. Email is required for customers that do not exist yet.
func (req SubscriptionRequest) validate(newCustomer bool) error {
	return validator.Apply(
		validator.When(newCustomer, validator.RequiredString("email", req.Email)),
		validator.When(req.Email != "", validator.ValidEmail("email", req.Email)),
		validator.MaxLenString("name", req.Name, 256),
		validator.When(req.Country != "", validator.ValidCountryCode("country", req.Country)),
		validator.When(req.Postcode != "", validator.ValidPostcode("postcode", req.Postcode)),
		validator.When(req.VAT != "", validator.MaxLenString("vat", req.VAT, 16)),
		validator.When(req.VAT != "", validator.RequiredString("country", req.Country)),
		validator.MaxLenString("coupon", req.Coupon, 64),
		validator.When(req.PaymentMethod != "", validator.ValidProcessorID("payment_method", req.PaymentMethod, "pm_")),
		validator.When(req.Plan != "", validator.ValidProcessorID("plan", req.Plan, "")),
	)
}

func (req SubscriptionRequest) manageOptions() billing.ManageOptions {
	return billing.ManageOptions{
		Email:         req.Email,
		Name:          req.Name,
		Country:       req.Country,
		Postcode:      req.Postcode,
		VAT:           req.VAT,
		Coupon:        req.Coupon,
		PaymentMethod: req.PaymentMethod,
		Plan:          req.Plan,
	}
}
