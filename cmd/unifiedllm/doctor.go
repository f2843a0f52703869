package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/gateway"
	"mercator-hq/unifiedllm/pkg/history"
	"mercator-hq/unifiedllm/pkg/history/storage"
	"mercator-hq/unifiedllm/pkg/providers"
	"mercator-hq/unifiedllm/pkg/security/secrets"
	securitytls "mercator-hq/unifiedllm/pkg/security/tls"
	"mercator-hq/unifiedllm/pkg/telemetry/health"
)

var doctorFlags struct {
	output  string
	timeout time.Duration
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials, history store and TLS settings",
	Long: `Check that the configured provider can be called without sending a request.

The doctor looks up every provider's API key in the credential chain, opens
the history store and inspects configured TLS certificates. A missing key for
the configured provider fails; missing keys for other providers only warn.

Exits with status 1 when any check fails.`,
	RunE: doctorCommand,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorFlags.output, "output", "o", "text", "output format: text, json, csv")
	doctorCmd.Flags().DurationVar(&doctorFlags.timeout, "timeout", 5*time.Second, "per-check timeout")
}

func doctorCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	formatter, err := cli.NewFormatterFor(doctorFlags.output)
	if err != nil {
		return err
	}

	mgr, err := secrets.NewFromConfig(cfg.Credentials)
	if err != nil {
		return cli.NewCommandError("credentials", err)
	}
	defer mgr.Close()

	checker := newDoctor(cfg, mgr, doctorFlags.timeout)
	return runDoctor(cmd.Context(), checker, formatter, cmd.OutOrStdout())
}

// runDoctor prints the report and turns a failed report into an error.
func runDoctor(ctx context.Context, checker *health.Checker, formatter cli.Formatter, w io.Writer) error {
	report := checker.Run(ctx)
	if err := formatter.FormatTo(w, report); err != nil {
		return err
	}
	if !report.Healthy() {
		return cli.NewCommandError("doctor", errors.New("one or more checks failed"))
	}
	return nil
}

// newDoctor registers the checks that apply to cfg.
func newDoctor(cfg *config.Config, creds providers.CredentialSource, timeout time.Duration) *health.Checker {
	checker := health.New(timeout)

	checker.Register("provider", func(ctx context.Context) error {
		id, err := gateway.ParseProviderID(cfg.Gateway.Provider)
		if err != nil {
			return err
		}
		model := cfg.Gateway.ModelFor(string(id))
		if model == "" {
			return fmt.Errorf("no model configured for %s", id)
		}
		return nil
	})

	selected, _ := gateway.ParseProviderID(cfg.Gateway.Provider)
	for _, id := range gateway.ProviderIDs() {
		checker.Register("credentials."+string(id), credentialCheck(cfg, creds, id, id == selected))
	}

	if cfg.History.Enabled {
		checker.Register("history", historyCheck(cfg.History))
	}

	tlsCfg := cfg.Gateway.TLS
	if !clientTLS(tlsCfg).IsZero() {
		checker.Register("tls", tlsCheck(tlsCfg))
	}

	return checker
}

func credentialCheck(cfg *config.Config, creds providers.CredentialSource, id gateway.ProviderID, selected bool) health.CheckFunc {
	return func(ctx context.Context) error {
		if selected && cfg.Gateway.APIKey != "" {
			return nil
		}

		identity, _ := gateway.Describe(id)
		if _, ok := creds.Lookup(identity.EnvKeyName); ok {
			return nil
		}

		if selected {
			return fmt.Errorf("%s not set; the configured provider cannot be called", identity.EnvKeyName)
		}
		return health.Warnf("%s not set", identity.EnvKeyName)
	}
}

func historyCheck(hcfg config.HistoryConfig) health.CheckFunc {
	return func(ctx context.Context) error {
		store, err := storage.Open(hcfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.Count(ctx, &history.Query{}); err != nil {
			return fmt.Errorf("store not readable: %w", err)
		}
		return nil
	}
}

// tlsCheck loads the TLS settings and warns about certificates that expire
// soon.
func tlsCheck(tcfg config.TLSConfig) health.CheckFunc {
	return func(ctx context.Context) error {
		if _, err := clientTLS(tcfg).ToTLSConfig(); err != nil {
			return err
		}

		now := time.Now()
		var warnings []string
		for _, path := range []string{tcfg.CAFile, tcfg.CertFile} {
			if path == "" {
				continue
			}
			certs, err := securitytls.LoadCertificates(path)
			if err != nil {
				return err
			}
			for _, cert := range certs {
				if err := securitytls.ValidateX509Certificate(cert, now); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if _, warning := securitytls.CheckCertificateExpiration(cert, now); warning != "" {
					warnings = append(warnings, warning)
				}
			}
		}

		if len(warnings) > 0 {
			return health.Warnf("%s", strings.Join(warnings, "; "))
		}
		return nil
	}
}
