package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import debits from OFX/QFX statements as expenses",
		Long: `Read OFX or QFX statements exported from your bank and add every debit
as an expense. The payee becomes the category and the amount is made positive.

Examples:
  # Import single file
  ledger import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  ledger import-ofx ~/Downloads/*.qfx

  # Preview without adding anything
  ledger import-ofx --dry-run ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	drafts := readDrafts(cmd.Context(), files)
	if len(drafts) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No debits found to import"))
		return nil
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d expenses would be imported", len(drafts))))
		for _, d := range drafts {
			fmt.Fprintf(out, "  %-30s %10s\n", d.Category, "$"+d.Amount)
		}
		return nil
	}

	ctrl, _, err := newController(slog.Default())
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Expenses added so far were kept.")
	ctx := interrupts.HandleInterrupts(cmd.Context())

	added, failed := importDrafts(ctx, ctrl, drafts, cli.NewImportProgress(cmd.ErrOrStderr(), len(drafts)))

	switch {
	case interrupts.WasInterrupted():
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Import interrupted after %d of %d expenses", added, len(drafts))))
	case failed > 0:
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Imported %d expenses, %d failed", added, failed)))
	default:
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses", added)))
	}

	if failed > 0 {
		return fmt.Errorf("%d expenses failed to import", failed)
	}
	return nil
}

// importDrafts submits each draft through the controller's add path.
// Drafts that fail local validation are counted as failed without a
// request. It stops early when ctx is cancelled.
func importDrafts(ctx context.Context, ctrl *controller.Controller, drafts []model.NewExpense, bar *progressbar.ProgressBar) (added, failed int) {
	for _, d := range drafts {
		if ctx.Err() != nil {
			break
		}

		if err := d.Validate(); err != nil {
			cli.Step(bar)
			failed++
			slog.Warn("Skipping invalid expense",
				"category", d.Category,
				"amount", d.Amount,
				"error", err)
			continue
		}

		err := ctrl.Add(ctx, d.Category, d.Amount)
		cli.Step(bar)

		switch {
		case err == nil:
			added++
		case ctx.Err() != nil:
		case ctrl.Snapshot().FormError == "":
			// Created, but the follow-up read failed.
			added++
		default:
			failed++
			slog.Warn("Failed to import expense",
				"category", d.Category,
				"amount", d.Amount,
				"error", ctrl.Snapshot().FormError)
		}
	}
	return added, failed
}

// expandFiles expands glob patterns into the files they name.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// readDrafts parses every file and returns the drafts for their debits.
// Lines repeated across overlapping statements are imported once.
func readDrafts(ctx context.Context, files []string) []model.NewExpense {
	parser := ofx.NewParser(slog.Default())
	seen := make(map[string]bool)

	var drafts []model.NewExpense
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		entries, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		var unique []ofx.Entry
		for _, e := range entries {
			key := e.Account + "/" + e.FitID
			if e.FitID != "" && seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, e)
		}

		fileDrafts := ofx.Drafts(unique)
		slog.Info("Processed file",
			"file", filepath.Base(path),
			"entries", len(entries),
			"debits", len(fileDrafts))
		drafts = append(drafts, fileDrafts...)
	}
	return drafts
}
