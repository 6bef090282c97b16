package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/lasso.db")
	if cfg.Database.Path != "/tmp/lasso.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Selection.Mode != "drag" || !cfg.Selection.SelectOnDrag || cfg.Selection.SelectWithShortcut {
		t.Fatalf("unexpected selection defaults %+v", cfg.Selection)
	}
	if !slices.Equal(cfg.Shortcuts.ToggleSingle, []string{"ctrl"}) {
		t.Fatalf("unexpected toggle_single shortcut %v", cfg.Shortcuts.ToggleSingle)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/lasso.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != defaults.Database.Path {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
path = "/custom/lasso.db"

[logging]
level = "debug"

[selection]
mode = "shortcut"
select_on_drag = false
select_with_shortcut = true

[shortcuts]
add = ["ctrl+a"]
disable = []

[layout]
columns = 4
cell_width = 10

[server]
http_bind = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/custom/lasso.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Selection.Mode != "shortcut" || cfg.Selection.SelectOnDrag || !cfg.Selection.SelectWithShortcut {
		t.Fatalf("unexpected selection %+v", cfg.Selection)
	}
	if !slices.Equal(cfg.Shortcuts.Add, []string{"ctrl+a"}) || len(cfg.Shortcuts.Disable) != 0 {
		t.Fatalf("unexpected shortcuts %+v", cfg.Shortcuts)
	}
	if !slices.Equal(cfg.Shortcuts.Remove, []string{"alt"}) {
		t.Fatalf("expected untouched remove shortcut, got %v", cfg.Shortcuts.Remove)
	}
	if cfg.Layout.Columns != 4 || cfg.Layout.CellWidth != 10 || cfg.Layout.CellHeight != 3 {
		t.Fatalf("unexpected layout %+v", cfg.Layout)
	}
	if cfg.Server.HTTPBind != ":9000" || cfg.Server.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected server %+v", cfg.Server)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"mode":     "[selection]\nmode = \"lasso\"\n",
		"level":    "[logging]\nlevel = \"loud\"\n",
		"combo":    "[shortcuts]\nadd = [\"ctrl++\"]\n",
		"two keys": "[shortcuts]\nremove = [\"a+b\"]\n",
		"columns":  "[layout]\ncolumns = -1\n",
		"cell":     "[layout]\ncell_height = 0\n",
		"endpoint": "[server]\nmcp_endpoint = \"/api/v1/\"\n",
		"relative": "[server]\napi_endpoint = \"api\"\n",
		"toml":     "[selection\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path, Default("/tmp/default.db")); err == nil {
				t.Fatalf("expected error for %s", strings.TrimSpace(content))
			}
		})
	}
}

func TestValidateRequiresDatabasePath(t *testing.T) {
	if err := Default(" ").Validate(); err == nil {
		t.Fatal("expected error for blank database path")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
