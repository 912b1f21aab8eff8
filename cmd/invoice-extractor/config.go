package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "***"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML (secrets redacted)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if cfg.LLM.APIKey != "" {
				cfg.LLM.APIKey = redacted
			}
			if cfg.Cache.Password != "" {
				cfg.Cache.Password = redacted
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the effective configuration for invalid values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			issues := a.cfg.Validate()
			w := cmd.OutOrStdout()
			if len(issues) == 0 {
				_, _ = fmt.Fprintln(w, "Configuration OK")
				return nil
			}
			for _, issue := range issues {
				_, _ = fmt.Fprintf(w, "  - %s\n", issue)
			}
			return fmt.Errorf("configuration has %d issue(s)", len(issues))
		},
	}

	cmd.AddCommand(show, validate)
	return cmd
}
