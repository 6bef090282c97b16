package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanschultz/lasso/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
	Selection SelectionConfig `toml:"selection"`
	Shortcuts ShortcutConfig  `toml:"shortcuts"`
	Layout    LayoutConfig    `toml:"layout"`
	Server    ServerConfig    `toml:"server"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type SelectionConfig struct {
	Mode               string `toml:"mode"` // click | drag | select | shortcut | disabled
	SelectOnDrag       bool   `toml:"select_on_drag"`
	SelectWithShortcut bool   `toml:"select_with_shortcut"`
}

// ShortcutConfig maps each selection intent to key combinations like "shift" or "alt+shift".
type ShortcutConfig struct {
	Add          []string `toml:"add"`
	Remove       []string `toml:"remove"`
	ToggleSingle []string `toml:"toggle_single"`
	Extend       []string `toml:"extend"`
	Disable      []string `toml:"disable"`
}

type LayoutConfig struct {
	Columns    int `toml:"columns"` // 0 fits the terminal width
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
	GapX       int `toml:"gap_x"`
	GapY       int `toml:"gap_y"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".lasso/log",
			},
		},
		Selection: SelectionConfig{
			Mode:         "drag",
			SelectOnDrag: true,
		},
		Shortcuts: ShortcutConfig{
			Add:          []string{"shift"},
			Remove:       []string{"alt"},
			ToggleSingle: []string{"ctrl"},
			Extend:       []string{"meta"},
			Disable:      []string{"alt+shift"},
		},
		Layout: LayoutConfig{
			Columns:    0,
			CellWidth:  18,
			CellHeight: 3,
			GapX:       2,
			GapY:       1,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:5437",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	level := strings.TrimSpace(strings.ToLower(c.Logging.Level))
	if !slices.Contains(logLevels, level) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if _, err := domain.ParseMode(c.Selection.Mode); err != nil {
		return fmt.Errorf("invalid selection.mode: %w", err)
	}

	for name, combos := range map[string][]string{
		"add":           c.Shortcuts.Add,
		"remove":        c.Shortcuts.Remove,
		"toggle_single": c.Shortcuts.ToggleSingle,
		"extend":        c.Shortcuts.Extend,
		"disable":       c.Shortcuts.Disable,
	} {
		for idx, combo := range combos {
			if err := validateCombo(combo); err != nil {
				return fmt.Errorf("shortcuts.%s[%d]: %w", name, idx, err)
			}
		}
	}

	if c.Layout.Columns < 0 {
		return errors.New("layout.columns must be >= 0")
	}
	if c.Layout.CellWidth < 1 || c.Layout.CellHeight < 1 {
		return errors.New("layout.cell_width and layout.cell_height must be >= 1")
	}
	if c.Layout.GapX < 0 || c.Layout.GapY < 0 {
		return errors.New("layout.gap_x and layout.gap_y must be >= 0")
	}

	if strings.TrimSpace(c.Server.HTTPBind) == "" {
		return errors.New("server.http_bind is required")
	}
	api := strings.TrimSpace(c.Server.APIEndpoint)
	mcp := strings.TrimSpace(c.Server.MCPEndpoint)
	if !strings.HasPrefix(api, "/") || !strings.HasPrefix(mcp, "/") {
		return errors.New("server endpoints must start with /")
	}
	if strings.TrimRight(api, "/") == strings.TrimRight(mcp, "/") {
		return fmt.Errorf("server.api_endpoint and server.mcp_endpoint must differ: %q", api)
	}

	return nil
}

// validateCombo rejects empty parts and more than one non-modifier key.
func validateCombo(combo string) error {
	combo = strings.TrimSpace(strings.ToLower(combo))
	if combo == "" {
		return errors.New("empty key combination")
	}
	keys := 0
	for _, part := range strings.Split(combo, "+") {
		switch strings.TrimSpace(part) {
		case "":
			return fmt.Errorf("malformed key combination %q", combo)
		case "ctrl", "control", "alt", "option", "shift", "meta", "cmd", "super":
		default:
			keys++
		}
	}
	if keys > 1 {
		return fmt.Errorf("key combination %q names more than one key", combo)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
