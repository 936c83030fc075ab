package tui

import (
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/spice-ledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Logger         *slog.Logger
	Width          int
	Height         int
	FilterDebounce time.Duration
	AltScreen      bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Width:          80,
		Height:         24,
		FilterDebounce: 250 * time.Millisecond,
		AltScreen:      true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFilterDebounce sets the delay between the last filter keystroke and
// the view update. Zero applies every keystroke immediately.
func WithFilterDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.FilterDebounce = d
	}
}

// WithLogger sets the logger. The terminal belongs to the TUI, so this
// should not write to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
