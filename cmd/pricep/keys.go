package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys kept in the system keyring",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [provider] [key]",
			Short: "Store an API key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.app(cmd)
				if err != nil {
					return err
				}
				return app.Keyring.StoreApiKey(args[0], []byte(args[1]))
			},
		},
		&cobra.Command{
			Use:   "get [provider]",
			Short: "Print a stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.app(cmd)
				if err != nil {
					return err
				}
				key, err := app.Keyring.GetApiKey(args[0])
				if err != nil {
					return err
				}
				if key == "" {
					return fmt.Errorf("no key stored for %s", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete [provider]",
			Short: "Remove a stored API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.app(cmd)
				if err != nil {
					return err
				}
				return app.Keyring.DeleteApiKey(args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List providers with a stored key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.app(cmd)
				if err != nil {
					return err
				}
				keys, err := app.Keyring.ListApiKeys()
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k["provider"])
				}
				return nil
			},
		},
	)
	return cmd
}
