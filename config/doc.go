// Package config loads orchid configuration from YAML files, .env files and
// environment variables.
//
// Files are resolved by name: an explicit path wins, otherwise
// ./<name>.yml, ./config/<name>.yml and ./config.yml are tried in order.
// Environment variables carrying the ORCHID_ prefix override file values; a
// double underscore separates nesting levels, so
//
//	ORCHID_DEFAULTS__TIMEOUT=5s
//	ORCHID_BASE_URL=https://api.example.com
//
// map to defaults.timeout and base_url. Duration strings are decoded into
// time.Duration fields.
//
// # Usage
//
//	var cfg httpclient.Config
//	if err := config.Load("orchid", &cfg); err != nil { ... }
package config
