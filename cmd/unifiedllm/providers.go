package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/unifiedllm/pkg/cli"
	"mercator-hq/unifiedllm/pkg/config"
	"mercator-hq/unifiedllm/pkg/gateway"
)

var providersOutput string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers",
	Long: `List the supported providers with their default model, base URL and the
environment variable their API key is read from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		formatter, err := cli.NewFormatterFor(providersOutput)
		if err != nil {
			return err
		}
		return formatter.FormatTo(cmd.OutOrStdout(), listProviders(cfg))
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.Flags().StringVarP(&providersOutput, "output", "o", "text", "output format: text, json, csv")
}

// providerInfo describes one registered provider.
type providerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DefaultModel string `json:"default_model"`
	BaseURL      string `json:"base_url"`
	EnvVar       string `json:"env_var"`
	Default      bool   `json:"default"`
}

// providerList implements cli.TextWriter and cli.Tabular.
type providerList []providerInfo

func listProviders(cfg *config.Config) providerList {
	var list providerList
	for _, id := range gateway.ProviderIDs() {
		identity, _ := gateway.Describe(id)
		list = append(list, providerInfo{
			ID:           string(id),
			Name:         identity.DisplayName,
			DefaultModel: cfg.Gateway.ModelFor(string(id)),
			BaseURL:      identity.BaseURL,
			EnvVar:       identity.EnvKeyName,
			Default:      string(id) == cfg.Gateway.Provider,
		})
	}
	return list
}

func (l providerList) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tNAME\tMODEL\tAPI KEY\tBASE URL")
	for _, p := range l {
		id := p.ID
		if p.Default {
			id += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, p.Name, p.DefaultModel, p.EnvVar, p.BaseURL)
	}
	return tw.Flush()
}

func (l providerList) CSVHeader() []string {
	return []string{"id", "name", "default_model", "base_url", "env_var", "default"}
}

func (l providerList) CSVRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, p := range l {
		rows = append(rows, []string{p.ID, p.Name, p.DefaultModel, p.BaseURL, p.EnvVar, fmt.Sprint(p.Default)})
	}
	return rows
}
