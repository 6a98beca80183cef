package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path   string
	Driver string
	Watch  bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Title string
	Mouse bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix SHOPLIST_.
// path overrides SHOPLIST_CONFIG when non-empty.
func Load(path string) (Config, error) {
	// a .env next to the binary's working dir is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "shoplist", "items_database.db"))
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.watch", true)
	v.SetDefault("ui.title", "Shopping List")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "shoplist", "shoplist.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	v.SetConfigFile(Path(path))

	v.SetEnvPrefix("SHOPLIST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// a missing file just means defaults; Save creates it later
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver != "sqlite3" && c.Database.Driver != "sqlite" {
		return Config{}, fmt.Errorf("database.driver: want sqlite3 or sqlite, got %q", c.Database.Driver)
	}
	return c, nil
}

// Path resolves the config file location: path if set, else SHOPLIST_CONFIG,
// else ~/.config/shoplist/config.toml.
func Path(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("SHOPLIST_CONFIG"); env != "" {
		return env
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "shoplist", "config.toml")
}

// Save writes the provided config to Path(path), creating the config
// directory if needed.
func Save(cfg Config, path string) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.watch", cfg.Database.Watch)
	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
