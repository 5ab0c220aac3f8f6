// Package config loads sheetsql settings from defaults, a YAML file,
// SHEETSQL_ environment variables and command-line flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/controller"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/engine"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/export"
)

// Default configuration values.
const (
	DefaultEngine       = engine.DefaultStore
	DefaultSheetName    = export.DefaultSheetName
	DefaultTableName    = export.DefaultTableName
	DefaultTableStyle   = export.DefaultTableStyle
	DefaultWidthPadding = export.DefaultPadding
	DefaultTickInterval = controller.DefaultTickInterval
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// Config holds all sheetsql settings.
type Config struct {
	Engine       string        `koanf:"engine"`
	SheetName    string        `koanf:"sheet_name"`
	TableName    string        `koanf:"table_name"`
	TableStyle   string        `koanf:"table_style"`
	WidthPadding int           `koanf:"width_padding"`
	TickInterval time.Duration `koanf:"tick_interval"`
	LogLevel     string        `koanf:"log_level"`
	LogFormat    string        `koanf:"log_format"`
	Verbose      bool          `koanf:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:       DefaultEngine,
		SheetName:    DefaultSheetName,
		TableName:    DefaultTableName,
		TableStyle:   DefaultTableStyle,
		WidthPadding: DefaultWidthPadding,
		TickInterval: DefaultTickInterval,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !engine.IsRegistered(c.Engine) {
		return fmt.Errorf("unknown engine %q (available: %s)", c.Engine, strings.Join(engine.ListStores(), ", "))
	}
	if strings.TrimSpace(c.SheetName) == "" {
		return fmt.Errorf("sheet_name is required")
	}
	if len([]rune(c.SheetName)) > 31 || strings.ContainsAny(c.SheetName, `:\/?*[]`) {
		return fmt.Errorf("invalid sheet_name %q", c.SheetName)
	}
	if strings.TrimSpace(c.TableName) == "" || strings.ContainsAny(c.TableName, " \t") {
		return fmt.Errorf("invalid table_name %q", c.TableName)
	}
	if c.WidthPadding < 0 {
		return fmt.Errorf("width_padding must not be negative, got %d", c.WidthPadding)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (must be text or json)", c.LogFormat)
	}
	return nil
}

// NewLogger builds the logger described by the configuration.
// Verbose forces debug level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q (must be debug, info, warn or error)", s)
	}
	return level, nil
}
