package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/controller"
	"github.com/Veraticus/spice-ledger/internal/store"
	"github.com/spf13/viper"
)

// newController builds a controller against the configured expense service.
func newController(logger *slog.Logger, opts ...controller.Option) (*controller.Controller, config.ClientConfig, error) {
	cfg, err := config.LoadClientConfig(viper.GetViper())
	if err != nil {
		return nil, config.ClientConfig{}, err
	}

	client, err := store.NewClient(cfg.BaseURL,
		store.WithTimeout(cfg.Timeout),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, config.ClientConfig{}, fmt.Errorf("failed to create expense client: %w", err)
	}

	base := []controller.Option{
		controller.WithLogger(logger),
		controller.WithFilterPolicy(cfg.FilterMatch),
		controller.WithSortCycle(cfg.SortCycle),
		controller.WithLocale(cfg.Locale),
	}
	return controller.New(client, append(base, opts...)...), cfg, nil
}

// parseID parses an expense id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("%q is not a valid expense id", arg), err)
	}
	return id, nil
}
