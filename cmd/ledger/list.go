package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/Veraticus/spice-ledger/internal/view"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long: `Fetch the expense collection and print it, optionally filtered by
category and sorted by a column.

Examples:
  # Everything, in server order
  ledger list

  # Categories starting with "fo", largest amount first
  ledger list --filter fo --sort amount --desc

  # Categories containing "oo" anywhere
  ledger list --filter oo --match substring`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringP("filter", "f", "", "only show categories matching this text (case-insensitive)")
	cmd.Flags().String("match", "", "filter match policy: prefix or substring (default from view.filter_match)")
	cmd.Flags().StringP("sort", "s", "", "sort by column: category or amount")
	cmd.Flags().Bool("desc", false, "sort descending")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	filterText, _ := cmd.Flags().GetString("filter")
	match, _ := cmd.Flags().GetString("match")
	sortBy, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")

	column, err := view.ParseColumn(sortBy)
	if err != nil {
		return err
	}
	direction := view.Ascending
	if desc {
		direction = view.Descending
	}

	var opts []controller.Option
	if match != "" {
		policy, err := view.ParseFilterPolicy(match)
		if err != nil {
			return err
		}
		opts = append(opts, controller.WithFilterPolicy(policy))
	}

	ctrl, _, err := newController(slog.Default(), opts...)
	if err != nil {
		return err
	}

	spinner := cli.NewSpinner(cmd.ErrOrStderr(), "Loading expenses...")
	err = ctrl.Load(cmd.Context())
	_ = spinner.Finish()

	snap := ctrl.Snapshot()
	if err != nil {
		return errors.New(snap.ListError)
	}

	ctrl.SetFilter(filterText)
	ctrl.SetSort(view.NewDirective(column, direction))
	snap = ctrl.Snapshot()

	out := cmd.OutOrStdout()
	fmt.Fprint(out, cli.RenderExpenses(snap.View, snap.Directive, snap.EmptyMessage()))
	if !snap.IsEmpty() {
		fmt.Fprintln(out, cli.FormatSummary(len(snap.View), snap.Total, snap.Filter.IsActive()))
	}
	return nil
}
