// Package validation validates configuration structs with
// go-playground/validator struct tags and reports failures as orchid
// INVALID_CONFIG errors.
//
// Besides the stock tags, three orchid-specific tags are registered:
//
//	http_url     absolute http or https URL
//	proxy_url    absolute http, https, socks5 or socks5h URL
//	header_name  RFC 7230 token, usable as a header field name
//
// Field names in messages come from the mapstructure tag, so they match the
// keys used in configuration files.
package validation
