package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change user preferences",
	}
	cmd.AddCommand(
		c.settingsShowCmd(),
		c.settingsDarkModeCmd(),
		c.settingsLanguageCmd(),
		c.settingsResetCmd(),
		c.settingsWatchCmd(),
	)
	return cmd
}

func (c *cli) settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			s, err := app.Preferences.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dark_mode=%t\nselected_language=%s\n", s.DarkMode, s.SelectedLanguage)
			return nil
		},
	}
}

func (c *cli) settingsDarkModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dark-mode [on|off]",
		Short: "Turn dark mode on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			return app.Preferences.SetDarkMode(cmd.Context(), enabled)
		},
	}
}

func (c *cli) settingsLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [Russian|English]",
		Short: "Select the interface language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			return app.Preferences.SetSelectedLanguage(cmd.Context(), args[0])
		},
	}
}

func (c *cli) settingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences, keeping the selected language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			return app.Preferences.ResetSettings(cmd.Context())
		},
	}
}

func (c *cli) settingsWatchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print preference changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			dark, err := app.Preferences.WatchDarkMode(ctx)
			if err != nil {
				return err
			}
			defer dark.Unsubscribe()
			lang, err := app.Preferences.WatchSelectedLanguage(ctx)
			if err != nil {
				return err
			}
			defer lang.Unsubscribe()

			out := cmd.OutOrStdout()
			darkCh, langCh := dark.Updates(), lang.Updates()
			seen := 0
			for darkCh != nil || langCh != nil {
				select {
				case v, ok := <-darkCh:
					if !ok {
						darkCh = nil
						continue
					}
					fmt.Fprintf(out, "dark_mode=%t\n", v)
				case v, ok := <-langCh:
					if !ok {
						langCh = nil
						continue
					}
					fmt.Fprintf(out, "selected_language=%s\n", v)
				}
				seen++
				if count > 0 && seen >= count {
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many values (0 = until interrupted)")
	return cmd
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}
