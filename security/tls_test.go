package security

import (
	"crypto/tls"
	"net/http"
	"testing"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/security/tlstest"
)

func TestTLSConfig_Build_Nil(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.Build()
	if err != nil || result != nil {
		t.Fatalf("expected nil, nil for nil config, got %v, %v", result, err)
	}
}

func TestTLSConfig_Build_ZeroValue(t *testing.T) {
	result, err := (&TLSConfig{}).Build()
	if err != nil || result != nil {
		t.Fatalf("expected nil, nil for zero config, got %v, %v", result, err)
	}
}

func TestTLSConfig_Build_SkipVerify(t *testing.T) {
	result, err := (&TLSConfig{SkipVerify: true, ServerName: "example.com"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected TLS 1.2 minimum, got %x", result.MinVersion)
	}
	if result.ServerName != "example.com" {
		t.Errorf("expected ServerName=example.com, got %s", result.ServerName)
	}
}

func TestTLSConfig_Build_MinVersion13(t *testing.T) {
	result, err := (&TLSConfig{MinVersion: "1.3"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected TLS 1.3, got %x", result.MinVersion)
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		wantErr bool
	}{
		{"nil", nil, false},
		{"empty", &TLSConfig{}, false},
		{"cert without key", &TLSConfig{CertFile: "a.pem"}, true},
		{"key without cert", &TLSConfig{KeyFile: "a.pem"}, true},
		{"bad version", &TLSConfig{MinVersion: "1.0"}, true},
		{"pkcs12 and cert", &TLSConfig{PKCS12File: "c.p12", CertFile: "a.pem", KeyFile: "b.pem"}, true},
		{"pkcs12 only", &TLSConfig{PKCS12File: "c.p12"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && errors.CodeOf(err) != errors.ErrCodeInvalidConfig {
				t.Errorf("expected INVALID_CONFIG, got %s", errors.CodeOf(err))
			}
		})
	}
}

func TestTLSConfig_Build_InvalidCA(t *testing.T) {
	if _, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build(); err == nil {
		t.Error("expected error for missing CA file")
	}
	bad := tlstest.WriteInvalidPEM(t, "ca.pem")
	if _, err := (&TLSConfig{CAFile: bad}).Build(); err == nil {
		t.Error("expected error for invalid CA content")
	}
}

func TestTLSConfig_Build_ClientCert(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	result, err := (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
	if len(result.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(result.Certificates))
	}
}

func TestTLSConfig_HandshakeWithGeneratedCA(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cfg, err := (&TLSConfig{CAFile: certs.CAFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

func TestTLSConfig_RootCAsPool(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	result, err := (&TLSConfig{RootCAs: certs.CertPool}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs != certs.CertPool {
		t.Error("expected provided pool to be used")
	}
}

func TestTLSConfig_Build_PKCS12(t *testing.T) {
	result, err := (&TLSConfig{PKCS12File: "testdata/client.p12", PKCS12Password: "orchid"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Certificates) != 1 {
		t.Fatalf("expected 1 client certificate, got %d", len(result.Certificates))
	}
	leaf := result.Certificates[0].Leaf
	if leaf == nil || leaf.Subject.CommonName != "orchid-client" {
		t.Errorf("expected leaf for orchid-client, got %v", leaf)
	}
	if result.Certificates[0].PrivateKey == nil {
		t.Error("expected private key")
	}
}

func TestTLSConfig_Build_PKCS12Errors(t *testing.T) {
	if _, err := (&TLSConfig{PKCS12File: "testdata/client.p12", PKCS12Password: "wrong"}).Build(); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, err := (&TLSConfig{PKCS12File: "testdata/missing.p12"}).Build(); err == nil {
		t.Error("expected error for missing file")
	}
}
