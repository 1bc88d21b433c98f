package vat

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrymomot/billingkit/pkg/logger"
)

const (
	soapAction      = "urn:ec.europa.eu:taxud:vies:services:checkVat/checkVat"
	maxResponseSize = 64 << 10
)

var (
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)
	numberPattern  = regexp.MustCompile(`^[0-9A-Z+*]{2,14}$`)
	numberCleaner  = strings.NewReplacer(" ", "", ".", "", "-", "")
)

// Result is a definitive VIES answer.
type Result struct {
	CountryCode string
	VATNumber   string
	Valid       bool
	Name        string
	Address     string
}

// Client verifies VAT numbers against VIES.
type Client struct {
	endpoint string
	http     *http.Client
	cache    *expirable.LRU[string, Result]
	log      *slog.Logger
}

// New creates a VIES client.
func New(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()

	c := &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		cache:    expirable.NewLRU[string, Result](cfg.CacheSize, nil, cfg.CacheTTL),
		log:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Verify reports whether the number is registered in VIES.
// Every failure is reported as invalid.
func (c *Client) Verify(ctx context.Context, country, number string) bool {
	res, err := c.Check(ctx, country, number)
	if err != nil {
		if !errors.Is(err, ErrMalformedInput) {
			c.log.WarnContext(ctx, "vat verification failed",
				logger.Component("vat"),
				slog.String("country", country),
				logger.Error(err),
			)
		}
		return false
	}
	return res.Valid
}

// Check queries VIES and returns its answer. Answers are served from the cache when present.
func (c *Client) Check(ctx context.Context, country, number string) (Result, error) {
	country, number, err := Normalize(country, number)
	if err != nil {
		return Result{}, err
	}

	key := country + number
	if c.cache != nil {
		if res, ok := c.cache.Get(key); ok {
			return res, nil
		}
	}

	res, err := c.request(ctx, country, number)
	if err != nil {
		return Result{}, err
	}

	if c.cache != nil {
		c.cache.Add(key, res)
	}

	return res, nil
}

// Normalize upper-cases the input, strips separators and a repeated country prefix, and maps
// the ISO code for Greece to the one VIES uses.
func Normalize(country, number string) (string, string, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "GR" {
		country = "EL"
	}
	if !countryPattern.MatchString(country) {
		return "", "", ErrMalformedInput
	}

	number = strings.TrimPrefix(CleanNumber(number), country)
	if !numberPattern.MatchString(number) {
		return "", "", ErrMalformedInput
	}

	return country, number, nil
}

// CleanNumber upper-cases number and strips spaces, dots and dashes. The country prefix stays.
func CleanNumber(number string) string {
	return strings.ToUpper(numberCleaner.Replace(strings.TrimSpace(number)))
}

func (c *Client) request(ctx context.Context, country, number string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(checkVatPayload(country, number)))
	if err != nil {
		return Result{}, errors.Join(ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("SOAPAction", soapAction)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, errors.Join(ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Result{}, errors.Join(ErrServiceUnavailable, err)
	}

	var env checkVatEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return Result{}, errors.Join(ErrInvalidResponse, err)
	}

	// VIES answers faults with HTTP 500 and a SOAP fault body.
	if env.Body.Fault != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrServiceFault, strings.TrimSpace(env.Body.Fault.String))
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: unexpected status %d", ErrServiceUnavailable, resp.StatusCode)
	}
	if env.Body.Response == nil {
		return Result{}, ErrInvalidResponse
	}

	r := env.Body.Response
	return Result{
		CountryCode: r.CountryCode,
		VATNumber:   r.VATNumber,
		Valid:       r.Valid,
		Name:        strings.TrimSpace(r.Name),
		Address:     strings.TrimSpace(r.Address),
	}, nil
}

type checkVatEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault *struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Fault"`
		Response *struct {
			CountryCode string `xml:"countryCode"`
			VATNumber   string `xml:"vatNumber"`
			Valid       bool   `xml:"valid"`
			Name        string `xml:"name"`
			Address     string `xml:"address"`
		} `xml:"checkVatResponse"`
	} `xml:"Body"`
}

func checkVatPayload(country, number string) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:tns1="urn:ec.europa.eu:taxud:vies:services:checkVat:types">`)
	buf.WriteString(`<soap:Header/><soap:Body><tns1:checkVat><tns1:countryCode>`)
	_ = xml.EscapeText(&buf, []byte(country))
	buf.WriteString(`</tns1:countryCode><tns1:vatNumber>`)
	_ = xml.EscapeText(&buf, []byte(number))
	buf.WriteString(`</tns1:vatNumber></tns1:checkVat></soap:Body></soap:Envelope>`)
	return buf.Bytes()
}
