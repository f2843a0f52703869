package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ClientConfig describes TLS for outbound connections to provider APIs.
// The zero value means "use Go's defaults and the system roots".
type ClientConfig struct {
	// CAFile is a PEM bundle appended to the system root pool
	CAFile string

	// CertFile and KeyFile are an optional client certificate pair
	CertFile string
	KeyFile  string

	// MinVersion is "1.2" (default) or "1.3"
	MinVersion string

	// ServerName overrides the verified host name
	ServerName string

	// InsecureSkipVerify disables verification; never use in production
	InsecureSkipVerify bool
}

// IsZero reports whether c changes nothing from the defaults.
func (c ClientConfig) IsZero() bool {
	return c == ClientConfig{}
}

// ToTLSConfig converts c to a crypto/tls.Config. It returns nil for the
// zero value so callers keep net/http's default TLS setup.
func (c ClientConfig) ToTLSConfig() (*tls.Config, error) {
	if c.IsZero() {
		return nil, nil
	}

	minVersion, err := parseTLSVersion(c.MinVersion)
	if err != nil {
		return nil, err
	}

	// #nosec G402 - InsecureSkipVerify is an explicit opt-in
	tlsConfig := &tls.Config{
		MinVersion:         minVersion,
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	if c.CAFile != "" {
		pool, err := loadCAPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}

	if c.CertFile != "" || c.KeyFile != "" {
		if c.CertFile == "" || c.KeyFile == "" {
			return nil, fmt.Errorf("cert_file and key_file must be set together")
		}
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		if err := ValidateCertificate(&cert); err != nil {
			return nil, fmt.Errorf("client certificate validation failed: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// loadCAPool returns the system pool extended with the certificates in path.
func loadCAPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in CA file %s", path)
	}
	return pool, nil
}

// parseTLSVersion accepts "1.2" and "1.3". TLS 1.0 and 1.1 are rejected.
func parseTLSVersion(v string) (uint16, error) {
	switch v {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q (use 1.2 or 1.3)", v)
	}
}
