package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "sparkd",
	Short: "24Toolkit backend - KV store, rate limiting, and AI proxy",
	Long: `Sparkd is the backend for 24Toolkit. It serves a JSON key-value
store, enforces per-client fixed-window rate limits, and proxies chat
completion requests to Anthropic (primary) or OpenAI (fallback).

Configuration comes from a YAML file plus SPARK_* environment
variables; environment variables always win. The server runs fine with
no configuration at all, using an in-memory store and default limits.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
}
