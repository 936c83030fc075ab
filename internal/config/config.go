// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/view"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Viper keys.
const (
	KeyBaseURL        = "api.base_url"
	KeyTimeout        = "api.timeout"
	KeyFilterMatch    = "view.filter_match"
	KeySortCycle      = "view.sort_cycle"
	KeyLocale         = "view.locale"
	KeyFilterDebounce = "ui.filter_debounce"
	KeyLogFile        = "ui.log_file"
	KeyServerAddr     = "server.addr"
	KeyServerDriver   = "server.driver"
	KeyServerDSN      = "server.dsn"
)

// Supported storage drivers for the reference server.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ClientConfig holds everything the expense client needs.
type ClientConfig struct {
	BaseURL        string
	LogFile        string
	Locale         language.Tag
	Timeout        time.Duration
	FilterDebounce time.Duration
	FilterMatch    view.FilterPolicy
	SortCycle      view.CycleMode
}

// ServerConfig holds the reference server settings.
type ServerConfig struct {
	Addr   string
	Driver string
	DSN    string
}

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "http://localhost:5000")
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyFilterMatch, "prefix")
	v.SetDefault(KeySortCycle, "three-way")
	v.SetDefault(KeyLocale, "und")
	v.SetDefault(KeyFilterDebounce, 250*time.Millisecond)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyServerAddr, ":5000")
	v.SetDefault(KeyServerDriver, DriverSQLite)
	v.SetDefault(KeyServerDSN, "~/.local/share/ledger/expenses.db")
}

// LoadClientConfig reads and validates the client settings.
func LoadClientConfig(v *viper.Viper) (ClientConfig, error) {
	cfg := ClientConfig{
		BaseURL:        strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		Timeout:        v.GetDuration(KeyTimeout),
		FilterDebounce: v.GetDuration(KeyFilterDebounce),
		LogFile:        ExpandPath(v.GetString(KeyLogFile)),
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ClientConfig{}, invalid(KeyBaseURL, fmt.Sprintf("%q is not an absolute URL", cfg.BaseURL))
	}
	if cfg.Timeout <= 0 {
		return ClientConfig{}, invalid(KeyTimeout, "must be positive")
	}
	if cfg.FilterDebounce < 0 {
		return ClientConfig{}, invalid(KeyFilterDebounce, "cannot be negative")
	}

	if cfg.FilterMatch, err = view.ParseFilterPolicy(v.GetString(KeyFilterMatch)); err != nil {
		return ClientConfig{}, invalid(KeyFilterMatch, err.Error())
	}
	if cfg.SortCycle, err = view.ParseCycleMode(v.GetString(KeySortCycle)); err != nil {
		return ClientConfig{}, invalid(KeySortCycle, err.Error())
	}
	if cfg.Locale, err = language.Parse(v.GetString(KeyLocale)); err != nil {
		return ClientConfig{}, invalid(KeyLocale, err.Error())
	}

	return cfg, nil
}

// LoadServerConfig reads and validates the reference server settings.
func LoadServerConfig(v *viper.Viper) (ServerConfig, error) {
	cfg := ServerConfig{
		Addr:   v.GetString(KeyServerAddr),
		Driver: v.GetString(KeyServerDriver),
		DSN:    v.GetString(KeyServerDSN),
	}

	switch cfg.Driver {
	case DriverSQLite:
		cfg.DSN = ExpandPath(cfg.DSN)
	case DriverPostgres:
	default:
		return ServerConfig{}, invalid(KeyServerDriver, fmt.Sprintf("unsupported driver %q", cfg.Driver))
	}

	if cfg.DSN == "" {
		return ServerConfig{}, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyServerDSN)
	}
	if cfg.Addr == "" {
		return ServerConfig{}, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyServerAddr)
	}

	return cfg, nil
}

func invalid(key, reason string) error {
	return fmt.Errorf("%w: %s: %s", common.ErrInvalidConfig, key, reason)
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
