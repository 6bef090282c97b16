package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultAppName names the config and data directories.
const DefaultAppName = "lasso"

// Environment variables that pin individual files regardless of platform dirs.
const (
	EnvConfigPath = "LASSO_CONFIG"
	EnvDBPath     = "LASSO_DB_PATH"
)

const (
	configFileName = "config.toml"
	devSuffix      = "-dev"
)

var (
	// ErrNoBaseDir reports a missing user config or data directory.
	ErrNoBaseDir = errors.New("platform: base directory unknown")
	// ErrNoAppName reports a blank application name.
	ErrNoAppName = errors.New("platform: app name is blank")
)

// Paths holds the files and directories one lasso profile owns.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// Options selects the profile whose paths are resolved.
type Options struct {
	AppName string
	DevMode bool
}

// profile returns the directory name for the options, dev profiles suffixed.
func (o Options) profile() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = DefaultAppName
	}
	if o.DevMode && !strings.HasSuffix(name, devSuffix) {
		name += devSuffix
	}
	return name
}

// baseVars names the env vars that replace the config and data roots on one OS.
type baseVars struct {
	config string
	data   string
}

var osBaseVars = map[string]baseVars{
	"linux":   {config: "XDG_CONFIG_HOME", data: "XDG_DATA_HOME"},
	"windows": {config: "APPDATA", data: "LOCALAPPDATA"},
}

// DefaultPaths resolves the default profile.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{})
}

// DefaultPathsWithOptions resolves opts against the running OS and process env.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataRoot, err := userDataDir(runtime.GOOS, configRoot)
	if err != nil {
		return Paths{}, err
	}

	env := make(map[string]string, 2)
	if vars, ok := osBaseVars[runtime.GOOS]; ok {
		env[vars.config] = os.Getenv(vars.config)
		env[vars.data] = os.Getenv(vars.data)
	}
	return PathsFor(runtime.GOOS, env, configRoot, dataRoot, opts.profile())
}

// userDataDir mirrors os.UserConfigDir for data; only linux splits the two.
func userDataDir(goos, configRoot string) (string, error) {
	if goos != "linux" {
		return configRoot, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// PathsFor lays out appName under the roots, letting goos-specific env vars
// replace userConfigDir and userDataDir.
func PathsFor(goos string, env map[string]string, userConfigDir, userDataDir, appName string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, ErrNoBaseDir
	}
	name := strings.TrimSpace(appName)
	if name == "" {
		return Paths{}, ErrNoAppName
	}

	configRoot, dataRoot := userConfigDir, userDataDir
	if vars, ok := osBaseVars[goos]; ok {
		configRoot = firstSet(env[vars.config], configRoot)
		dataRoot = firstSet(env[vars.data], dataRoot)
	}

	dataDir := filepath.Join(dataRoot, name)
	return Paths{
		ConfigPath: filepath.Join(configRoot, name, configFileName),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, name+".db"),
	}, nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// EnvOverrides reads the config and db pins through lookup, blank when unset.
func EnvOverrides(lookup func(string) string) (configPath, dbPath string) {
	if lookup == nil {
		return "", ""
	}
	return strings.TrimSpace(lookup(EnvConfigPath)), strings.TrimSpace(lookup(EnvDBPath))
}

// WithOverrides pins the config file and database. A pinned database moves
// DataDir to its parent so sidecar files land beside it.
func (p Paths) WithOverrides(configPath, dbPath string) Paths {
	if v := strings.TrimSpace(configPath); v != "" {
		p.ConfigPath = v
	}
	if v := strings.TrimSpace(dbPath); v != "" {
		p.DBPath = v
		p.DataDir = filepath.Dir(v)
	}
	return p
}
