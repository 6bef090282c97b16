package platform

import (
	"errors"
	"path/filepath"
	"testing"
)

// TestPathsForLinuxWithXDG verifies XDG directories take precedence on linux.
func TestPathsForLinuxWithXDG(t *testing.T) {
	p, err := PathsFor("linux", map[string]string{
		"XDG_CONFIG_HOME": "/xdg/config",
		"XDG_DATA_HOME":   "/xdg/data",
	}, "/fallback/config", "/fallback/data", "lasso")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if want := filepath.Join("/xdg/config", "lasso", "config.toml"); p.ConfigPath != want {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
	if want := filepath.Join("/xdg/data", "lasso", "lasso.db"); p.DBPath != want {
		t.Fatalf("unexpected db path %q", p.DBPath)
	}
}

// TestPathsForWindowsUsesAppData verifies APPDATA and LOCALAPPDATA on windows.
func TestPathsForWindowsUsesAppData(t *testing.T) {
	p, err := PathsFor("windows", map[string]string{
		"APPDATA":      `C:\Users\me\AppData\Roaming`,
		"LOCALAPPDATA": `C:\Users\me\AppData\Local`,
	}, `C:\fallback\config`, `C:\fallback\data`, "lasso")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if want := filepath.Join(`C:\Users\me\AppData\Roaming`, "lasso", "config.toml"); p.ConfigPath != want {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
	if want := filepath.Join(`C:\Users\me\AppData\Local`, "lasso", "lasso.db"); p.DBPath != want {
		t.Fatalf("unexpected db path %q", p.DBPath)
	}
}

// TestPathsForRejectsEmptyInputs verifies blank base dirs and app names fail.
func TestPathsForRejectsEmptyInputs(t *testing.T) {
	if _, err := PathsFor("darwin", nil, "", "/tmp/data", "lasso"); !errors.Is(err, ErrNoBaseDir) {
		t.Fatalf("expected ErrNoBaseDir, got %v", err)
	}
	if _, err := PathsFor("darwin", nil, "/cfg", "/data", " "); !errors.Is(err, ErrNoAppName) {
		t.Fatalf("expected ErrNoAppName, got %v", err)
	}
}

// TestPathsForDarwinIgnoresXDG verifies non-linux platforms keep base dirs.
func TestPathsForDarwinIgnoresXDG(t *testing.T) {
	base := "/Users/me/Library/Application Support"
	p, err := PathsFor("darwin", map[string]string{"XDG_CONFIG_HOME": "/ignored"}, base, base, "lasso")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if want := filepath.Join(base, "lasso", "config.toml"); p.ConfigPath != want {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
	if want := filepath.Join(base, "lasso"); p.DataDir != want {
		t.Fatalf("unexpected data dir %q", p.DataDir)
	}
}

// TestDefaultPathsWithOptionsDevMode verifies the dev suffix on dirs and db name.
func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	p, err := DefaultPathsWithOptions(Options{DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(p.ConfigPath)) != "lasso-dev" {
		t.Fatalf("expected dev config dir suffix, got %q", p.ConfigPath)
	}
	if filepath.Base(p.DBPath) != "lasso-dev.db" {
		t.Fatalf("expected dev db name, got %q", p.DBPath)
	}
}

// TestPathsWithOverrides verifies explicit paths replace resolved ones.
func TestPathsWithOverrides(t *testing.T) {
	p := Paths{ConfigPath: "/a/config.toml", DataDir: "/b", DBPath: "/b/lasso.db"}
	got := p.WithOverrides(" ", "/tmp/other/x.db")
	if got.ConfigPath != "/a/config.toml" || got.DBPath != "/tmp/other/x.db" || got.DataDir != "/tmp/other" {
		t.Fatalf("WithOverrides() = %#v", got)
	}
}

// TestPathsForLinuxBlankXDGFallsBack verifies whitespace env values keep the base dirs.
func TestPathsForLinuxBlankXDGFallsBack(t *testing.T) {
	p, err := PathsFor("linux", map[string]string{"XDG_DATA_HOME": "  "}, "/home/me/.config", "/home/me/.local/share", "lasso")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if want := filepath.Join("/home/me/.local/share", "lasso"); p.DataDir != want {
		t.Fatalf("unexpected data dir %q", p.DataDir)
	}
}

// TestOptionsProfile verifies default naming and a single dev suffix.
func TestOptionsProfile(t *testing.T) {
	cases := []struct {
		opts Options
		want string
	}{
		{Options{}, "lasso"},
		{Options{AppName: " demo "}, "demo"},
		{Options{DevMode: true}, "lasso-dev"},
		{Options{AppName: "lasso-dev", DevMode: true}, "lasso-dev"},
	}
	for _, tc := range cases {
		if got := tc.opts.profile(); got != tc.want {
			t.Fatalf("profile(%+v) = %q, want %q", tc.opts, got, tc.want)
		}
	}
}

// TestEnvOverrides verifies the config and db pins are read and trimmed.
func TestEnvOverrides(t *testing.T) {
	env := map[string]string{EnvConfigPath: " /etc/lasso.toml ", EnvDBPath: "/var/lasso/items.db"}
	cfg, db := EnvOverrides(func(k string) string { return env[k] })
	if cfg != "/etc/lasso.toml" || db != "/var/lasso/items.db" {
		t.Fatalf("EnvOverrides() = %q, %q", cfg, db)
	}
	if cfg, db := EnvOverrides(nil); cfg != "" || db != "" {
		t.Fatalf("EnvOverrides(nil) = %q, %q", cfg, db)
	}
}
