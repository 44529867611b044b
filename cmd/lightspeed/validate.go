package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/JoaoFula/lightspeed-service/pkg/config"
)

var validateFlags struct {
	skipResolution bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Run a configuration document through the full loading pipeline and
report every problem found.

The pipeline stops at the first failing stage but reports all problems of
that stage: a document with five invalid fields produces five diagnostics,
not one.

With --skip-resolution the filesystem stage is skipped, so credential
files, certificates and index paths referenced by the document do not
need to exist. Useful for linting documents outside the deployment
environment.

Examples:
  # Full validation including filesystem references
  lightspeed validate --config olsconfig.yaml

  # Schema and invariants only
  lightspeed validate --config olsconfig.yaml --skip-resolution`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.skipResolution, "skip-resolution", false,
		"skip the filesystem resolution stage")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load(cfgFile)
	if err == nil {
		config.ApplyDefaults(cfg)
		err = config.Validate(cfg)
	}
	if err == nil && !validateFlags.skipResolution {
		err = config.Resolve(cfg)
	}

	if err != nil {
		report := config.NewReport(err)
		fmt.Fprintln(cmd.ErrOrStderr(), report.String())
		return fmt.Errorf("%s is not a valid configuration", cfgFile)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", cfgFile)
	if verbose {
		printSummary(cmd, cfg)
	}
	return nil
}

// printSummary prints a short inventory of the validated document.
func printSummary(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(cfg.LLMProviders.Providers))
	for name := range cfg.LLMProviders.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "providers: %d\n", len(names))
	for _, name := range names {
		provider := cfg.LLMProviders.Providers[name]
		fmt.Fprintf(out, "  %s (%s): %d models\n", name, provider.Type, len(provider.Models))
	}

	if cache := cfg.OLSConfig.ConversationCache; cache != nil {
		fmt.Fprintf(out, "conversation cache: %s\n", cache.Type)
	}
	if quota := cfg.OLSConfig.QuotaHandlers; quota != nil {
		fmt.Fprintf(out, "quota limiters: %d\n", len(quota.Limiters.Limiters))
	}
	if len(cfg.MCPServers) > 0 {
		fmt.Fprintf(out, "mcp servers: %d\n", len(cfg.MCPServers))
	}
}
