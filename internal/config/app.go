package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// AppConfig holds process-level options. Values come from DefaultAppConfig,
// then an optional TOML file, then command line flags.
type AppConfig struct {
	LogLevel       string  `toml:"log_level"`
	LogFormat      string  `toml:"log_format"` // "text" or "json"
	SettingsFile   string  `toml:"settings_file"`
	PreviewMaxSize int     `toml:"preview_max_size"`
	WindowWidth    float64 `toml:"window_width"`
	WindowHeight   float64 `toml:"window_height"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		LogLevel:       "info",
		LogFormat:      "json",
		SettingsFile:   "",
		PreviewMaxSize: 1600,
		WindowWidth:    1400,
		WindowHeight:   900,
	}
}

// LoadAppConfig overlays the TOML file at path on the defaults. An empty
// path returns the defaults.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return DefaultAppConfig(), fmt.Errorf("load app config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return DefaultAppConfig(), fmt.Errorf("load app config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return DefaultAppConfig(), fmt.Errorf("load app config %s: %w", path, err)
	}
	return cfg, nil
}

func (c AppConfig) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.PreviewMaxSize < 0 {
		return fmt.Errorf("preview_max_size must not be negative, got %d", c.PreviewMaxSize)
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %vx%v", c.WindowWidth, c.WindowHeight)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c AppConfig) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SettingsPath returns the configured settings file or the default one.
func (c AppConfig) SettingsPath() string {
	if c.SettingsFile != "" {
		return c.SettingsFile
	}
	return DefaultSettingsPath()
}
