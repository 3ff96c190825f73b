// Package security builds client TLS configuration for orchid transports.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/orchid/ca.pem",
//	    CertFile:   "/etc/orchid/client.pem",
//	    KeyFile:    "/etc/orchid/client-key.pem",
//	    MinVersion: "1.3",
//	}
//	tlsConfig, err := cfg.Build()
package security
