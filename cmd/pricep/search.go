package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pricep/internal/services"
)

func (c *cli) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search prices by text or photo",
	}
	cmd.AddCommand(c.searchTextCmd(), c.searchImageCmd())
	return cmd
}

func (c *cli) searchTextCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "text [query]",
		Short: "Search prices for a product name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			res, err := app.Search.SearchText(cmd.Context(), args[0], !noSave)
			return printResult(cmd, res, err)
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the search in history")
	return cmd
}

func (c *cli) searchImageCmd() *cobra.Command {
	var noSave bool
	var direct bool

	cmd := &cobra.Command{
		Use:   "image [photo.jpg]",
		Short: "Search prices for the product in a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			var res *services.SearchResult
			if direct {
				res, err = app.Search.SearchImageDirect(cmd.Context(), image, !noSave)
			} else {
				res, err = app.Search.SearchImage(cmd.Context(), image, !noSave)
			}
			return printResult(cmd, res, err)
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the search in history")
	cmd.Flags().BoolVar(&direct, "direct", false, "Send the photo to the backend image search instead of describing it first")
	return cmd
}

// printResult prints res when there is one. A history write failure after a
// successful search is reported on stderr and still fails the command.
func printResult(cmd *cobra.Command, res *services.SearchResult, err error) error {
	if res == nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Query != "" {
		fmt.Fprintf(out, "query: %s\n\n", res.Query)
	}
	fmt.Fprintln(out, res.Text)
	if res.MainURL != "" {
		fmt.Fprintln(out, res.MainURL)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return err
}
