package vat

import "time"

// DefaultEndpoint is the public VIES checkVat SOAP endpoint.
const DefaultEndpoint = "https://ec.europa.eu/taxation_customs/vies/services/checkVatService"

// Config holds VIES client settings. Zero values fall back to defaults.
type Config struct {
	Endpoint  string        `env:"VIES_ENDPOINT" envDefault:"https://ec.europa.eu/taxation_customs/vies/services/checkVatService"`
	Timeout   time.Duration `env:"VIES_TIMEOUT" envDefault:"10s"`
	CacheSize int           `env:"VIES_CACHE_SIZE" envDefault:"1024"`
	CacheTTL  time.Duration `env:"VIES_CACHE_TTL" envDefault:"24h"`
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 1024
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 24 * time.Hour
	}
	return c
}
