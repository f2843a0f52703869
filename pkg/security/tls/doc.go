/*
Package tls builds client TLS settings for connections to provider APIs.

Most deployments need nothing here. It exists for networks that route
provider traffic through an intercepting proxy with a private CA, or that
require a client certificate:

	cfg := tls.ClientConfig{
		CAFile:     "/etc/ssl/corp-ca.pem",
		MinVersion: "1.3",
	}

	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		log.Fatal(err)
	}
	transport := providers.NewHTTPTransport(providers.TransportConfig{TLS: tlsConfig})

TLS 1.0 and 1.1 are not supported. The certificate helpers report validity
windows and upcoming expiry for the doctor command.
*/
package tls
