/*
Package security groups credential handling and client TLS for the gateway.

# Credentials

Provider API keys are looked up through a chain of secret providers:

	manager, err := secrets.NewFromConfig(cfg.Credentials)
	if err != nil {
		log.Fatal(err)
	}
	defer manager.Close()

	gw, err := gateway.New(gateway.Options{
		Provider:    gateway.Anthropic,
		Model:       "claude-3-5-haiku-latest",
		Credentials: manager,
	})

Configuration values may reference a secret as ${secret:name}; see
Manager.ResolveReferences.

# TLS

Outbound TLS is only customized when a private CA or a client certificate
is needed:

	tlsConfig, err := tls.ClientConfig{CAFile: "/etc/ssl/corp-ca.pem"}.ToTLSConfig()
*/
package security
