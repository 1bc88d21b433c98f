// Package config loads environment variables into tagged structs.
//
// A .env file in the working directory is read once if present, then the struct is parsed
// with github.com/caarlos0/env. Structs that implement Validate() error are validated after
// parsing, so a bad configuration stops the process at startup:
//
//	var cfg billing.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package config
