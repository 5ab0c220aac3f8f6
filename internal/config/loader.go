package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment overrides, e.g. SHEETSQL_ENGINE.
const EnvPrefix = "SHEETSQL_"

// configNames are searched in the working directory when no file is given.
var configNames = []string{"sheetsql.yaml", "sheetsql.yml"}

// findConfigFile finds the config file to use.
// Priority: explicit path > sheetsql.yaml > sheetsql.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// It returns the config and the file it read, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"engine":        def.Engine,
		"sheet_name":    def.SheetName,
		"table_name":    def.TableName,
		"table_style":   def.TableStyle,
		"width_padding": def.WidthPadding,
		"tick_interval": def.TickInterval.String(),
		"log_level":     def.LogLevel,
		"log_format":    def.LogFormat,
		"verbose":       def.Verbose,
	}, "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: SHEETSQL_TABLE_STYLE -> table_style
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Engine = strings.ToLower(strings.TrimSpace(cfg.Engine))

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, used, nil
}
