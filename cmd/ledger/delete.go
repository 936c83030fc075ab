package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Long: `Delete an expense by id after asking for confirmation.

Examples:
  ledger delete 12
  ledger delete 12 --force`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}

	cmd.Flags().Bool("force", false, "skip the confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	var confirmer controller.Confirmer = cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	if force {
		confirmer = controller.AlwaysConfirm
	}

	ctrl, _, err := newController(slog.Default(), controller.WithConfirmer(confirmer))
	if err != nil {
		return err
	}

	confirmed, err := ctrl.Delete(cmd.Context(), id)
	if !confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Cancelled"))
		return nil
	}
	if err != nil {
		return errors.New(ctrl.Snapshot().ListError)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Expense %d deleted", id)))
	return nil
}
