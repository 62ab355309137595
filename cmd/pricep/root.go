package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pricep/internal/appcontext"
	"pricep/internal/config"
)

type providerFactory func(cfg *config.Config) *appcontext.Provider

// cli carries what every subcommand needs. The provider is created in the
// root's PersistentPreRunE and closed in PersistentPostRunE.
type cli struct {
	newProvider providerFactory
	dbPath      string
	apiURL      string

	provider *appcontext.Provider
}

func newRootCmd(newProvider providerFactory) *cobra.Command {
	c := &cli{newProvider: newProvider}

	rootCmd := &cobra.Command{
		Use:           "pricep",
		Short:         "Look up product prices and manage local history and settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if c.dbPath != "" {
				cfg.DBPath = c.dbPath
			}
			if c.apiURL != "" {
				cfg.APIBaseURL = c.apiURL
			}
			c.provider = c.newProvider(cfg)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.provider == nil {
				return nil
			}
			return c.provider.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "Database path (overrides PRICEP_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&c.apiURL, "api", "", "Price API base URL (overrides PRICEP_API_BASE_URL)")

	rootCmd.AddCommand(c.historyCmd())
	rootCmd.AddCommand(c.settingsCmd())
	rootCmd.AddCommand(c.searchCmd())
	rootCmd.AddCommand(c.keysCmd())

	return rootCmd
}

func (c *cli) app(cmd *cobra.Command) (*appcontext.Context, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("application context not initialised")
	}
	return c.provider.Get(cmd.Context())
}
