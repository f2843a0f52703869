package main

import (
	"time"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/providers"
	securitytls "mercator-hq/unifiedllm/pkg/security/tls"
)

// clientTLS converts the gateway TLS section.
func clientTLS(c config.TLSConfig) securitytls.ClientConfig {
	return securitytls.ClientConfig{
		CAFile:             c.CAFile,
		CertFile:           c.CertFile,
		KeyFile:            c.KeyFile,
		MinVersion:         c.MinVersion,
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// newTransport returns a transport using the configured TLS settings, or
// nil when none are set so the client builds its default one.
func newTransport(c config.TLSConfig, timeout time.Duration) (*providers.HTTPTransport, error) {
	tlsCfg := clientTLS(c)
	if tlsCfg.IsZero() {
		return nil, nil
	}

	tlsConfig, err := tlsCfg.ToTLSConfig()
	if err != nil {
		return nil, cli.NewConfigError("gateway.tls", err.Error())
	}

	if timeout <= 0 {
		timeout = providers.DefaultTimeout
	}
	return providers.NewHTTPTransport(providers.TransportConfig{
		Timeout: timeout,
		TLS:     tlsConfig,
	}), nil
}
