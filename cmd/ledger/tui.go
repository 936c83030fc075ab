package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/Veraticus/spice-ledger/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit expenses interactively",
		Long: `Open a full-screen expense table with an add form, a category filter
and sortable columns.

Keys:
  a        add an expense          d   delete the selected expense
  c / m    sort by category/amount /   filter by category
  r        reload                  ?   help
  q        quit`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}

	cmd.Flags().Bool("no-alt-screen", false, "render inline instead of in the alternate screen")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")

	logger, closeLog, err := tuiLogger(viper.GetString(config.KeyLogFile))
	if err != nil {
		return err
	}
	defer closeLog()

	prompter := tui.NewPrompter()
	ctrl, cfg, err := newController(logger, controller.WithConfirmer(prompter))
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), ctrl, prompter,
		tui.WithLogger(logger),
		tui.WithFilterDebounce(cfg.FilterDebounce),
		tui.WithAltScreen(!noAltScreen),
	)
}

// tuiLogger returns a logger that stays off the terminal: it appends to
// path, or discards everything when path is empty.
func tuiLogger(path string) (*slog.Logger, func(), error) {
	path = config.ExpandPath(path)
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
