package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lightspeed",
	Short: "Lightspeed - configuration engine for the lightspeed LLM gateway",
	Long: `Lightspeed loads, validates and resolves the declarative YAML
configuration of the lightspeed LLM gateway.

A configuration document describes:
  - LLM providers (azure_openai, bam, openai, watsonx, rhelai_vllm,
    rhoai_vllm, fake) and their models
  - Service policy: authentication, conversation cache, quota handling,
    TLS, query filters, reference content
  - MCP servers and the user data collector sidecar

The engine runs the full pipeline - strict decoding, defaults, three
validation passes and filesystem resolution - and reports every problem
of the failing stage in one run.`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "olsconfig.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
