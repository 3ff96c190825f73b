package security

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/noel-archive/orchid/errors"
)

// TLSConfig holds client TLS settings.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	// Not recommended for production.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is a PEM bundle of trusted CAs. When set, the system roots
	// are not consulted.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile hold the client certificate for mTLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// PKCS12File is a .p12/.pfx bundle holding one client certificate and
	// its key, as an alternative to CertFile and KeyFile.
	PKCS12File     string `yaml:"pkcs12_file" mapstructure:"pkcs12_file"`
	PKCS12Password string `yaml:"pkcs12_password" mapstructure:"pkcs12_password"`

	// ServerName overrides the name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is "1.2" or "1.3". Defaults to "1.2".
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`

	// RootCAs replaces CAFile for programmatic use.
	RootCAs *x509.CertPool `yaml:"-" mapstructure:"-"`
}

var tlsVersions = map[string]uint16{
	"":    tls.VersionTLS12,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// Build creates a *tls.Config. It returns nil when nothing is configured so
// callers keep the transport's default.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in
		ServerName:         c.ServerName,
		MinVersion:         tlsVersions[c.MinVersion],
		RootCAs:            c.RootCAs,
	}
	if err := c.loadCA(cfg); err != nil {
		return nil, err
	}
	if err := c.loadClientCert(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the TLS configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return errors.InvalidConfig("tls: cert_file and key_file must be provided together")
	}
	if c.PKCS12File != "" && c.CertFile != "" {
		return errors.InvalidConfig("tls: pkcs12_file and cert_file are mutually exclusive")
	}
	if _, ok := tlsVersions[c.MinVersion]; !ok {
		return errors.InvalidConfig("tls: min_version must be 1.2 or 1.3 (got: " + c.MinVersion + ")")
	}
	return nil
}

// IsEnabled returns true if any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" ||
		c.PKCS12File != "" || c.ServerName != "" || c.MinVersion != "" || c.RootCAs != nil
}

func (c *TLSConfig) loadCA(cfg *tls.Config) error {
	if c.CAFile == "" {
		return nil
	}
	ca, err := os.ReadFile(c.CAFile)
	if err != nil {
		return errors.InvalidConfig("tls: cannot read ca_file").WithCause(err)
	}
	pool := cfg.RootCAs
	if pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(ca) {
		return errors.InvalidConfig("tls: ca_file contains no valid certificate")
	}
	cfg.RootCAs = pool
	return nil
}

func (c *TLSConfig) loadClientCert(cfg *tls.Config) error {
	if c.PKCS12File != "" {
		return c.loadPKCS12(cfg)
	}
	if c.CertFile == "" {
		return nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return errors.InvalidConfig("tls: cannot load client certificate").WithCause(err)
	}
	cfg.Certificates = []tls.Certificate{cert}
	return nil
}

func (c *TLSConfig) loadPKCS12(cfg *tls.Config) error {
	data, err := os.ReadFile(c.PKCS12File)
	if err != nil {
		return errors.InvalidConfig("tls: cannot read pkcs12_file").WithCause(err)
	}
	key, cert, err := pkcs12.Decode(data, c.PKCS12Password)
	if err != nil {
		return errors.InvalidConfig("tls: cannot decode pkcs12_file").WithCause(err)
	}
	cfg.Certificates = []tls.Certificate{{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  key,
		Leaf:        cert,
	}}
	return nil
}
