package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolkit24/spark/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without starting the server",
	Long: `Load the configuration file, apply defaults and environment
overrides, and report whether the result is valid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
		fmt.Fprintf(cmd.OutOrStdout(), "  listen address: %s\n", cfg.Server.ListenAddress)
		fmt.Fprintf(cmd.OutOrStdout(), "  mode:           %s\n", cfg.Server.Mode)
		fmt.Fprintf(cmd.OutOrStdout(), "  kv backend:     %s\n", cfg.KV.Backend)
		fmt.Fprintf(cmd.OutOrStdout(), "  anthropic key:  %s\n", configured(cfg.Providers.Anthropic.APIKey))
		fmt.Fprintf(cmd.OutOrStdout(), "  openai key:     %s\n", configured(cfg.Providers.OpenAI.APIKey))
		fmt.Fprintf(cmd.OutOrStdout(), "  metrics:        %v\n", cfg.Metrics.Enabled)
		return nil
	},
}

func configured(key string) string {
	if key == "" {
		return "not set"
	}
	return "set"
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
