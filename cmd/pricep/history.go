package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pricep/internal/models"
)

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit the search history",
	}
	cmd.AddCommand(c.historyListCmd(), c.historyAddCmd(), c.historyClearCmd(), c.historyWatchCmd())
	return cmd
}

func (c *cli) historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			items, err := app.History.List(cmd.Context())
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), items)
		},
	}
}

func (c *cli) historyAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [request] [response]",
		Short: "Record a request/response pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			item, err := app.History.Insert(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added #%d\n", item.ID)
			return nil
		},
	}
}

func (c *cli) historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			if err := app.History.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}
}

func (c *cli) historyWatchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the history every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd)
			if err != nil {
				return err
			}
			sub, err := app.History.AllHistoryItems(cmd.Context())
			if err != nil {
				return err
			}
			defer sub.Unsubscribe()

			out := cmd.OutOrStdout()
			seen := 0
			for items := range sub.Updates() {
				fmt.Fprintf(out, "-- %d record(s)\n", len(items))
				if err := printHistory(out, items); err != nil {
					return err
				}
				seen++
				if count > 0 && seen >= count {
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Stop after this many snapshots (0 = until interrupted)")
	return cmd
}

func printHistory(out io.Writer, items []models.HistoryItem) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, it := range items {
		ts := time.UnixMilli(it.Timestamp).Format(time.DateTime)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.ID, ts, oneLine(it.RequestText), oneLine(it.ResponseText))
	}
	return tw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
