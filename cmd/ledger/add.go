package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add CATEGORY AMOUNT",
		Short: "Add an expense",
		Long: `Submit a new expense to the service and re-read the collection.

Examples:
  ledger add Groceries 42.17
  ledger add "Coffee beans" 12`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctrl, _, err := newController(slog.Default())
	if err != nil {
		return err
	}

	spinner := cli.NewSpinner(cmd.ErrOrStderr(), "Adding expense...")
	err = ctrl.Add(cmd.Context(), args[0], args[1])
	_ = spinner.Finish()

	snap := ctrl.Snapshot()
	if snap.FormError != "" {
		return errors.New(snap.FormError)
	}
	if err != nil {
		// The expense was added but the follow-up read failed.
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Expense added"))
		return errors.New(snap.ListError)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Expense added (%d expenses)", snap.Total)))
	return nil
}
