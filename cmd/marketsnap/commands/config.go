package commands

import (
	"fmt"
	"log/slog"
	"os"

	"marketsnap/internal/layout"
	"marketsnap/lib/browser"
	configlibsql "marketsnap/lib/configuration/libsql"
	"marketsnap/lib/configutil"
)

type Config struct {
	Url      string `json:"url"`
	TopN     int    `json:"top_n"`
	Schedule string `json:"schedule"`
	// SnapshotDir receives one csv file per run.
	SnapshotDir string `json:"snapshot_dir"`
	// DumpDir receives the captured markup of every run, dumps are disabled if empty.
	DumpDir  string              `json:"dump_dir"`
	Database configlibsql.Struct `json:"database"`
	Browser  browser.Options     `json:"browser"`
	// Layout defaults to layout.V1, fields that are set override those of the known
	// layout for the version.
	Layout layout.Layout `json:"layout"`
}

// authTokenEnv is read (possibly from .env) when database.auth_token is not configured.
const authTokenEnv = "MARKETSNAP_DB_AUTH_TOKEN"

var defaultConfig = Config{
	Url:         "https://coinmarketcap.com/",
	TopN:        100,
	Schedule:    "@every 1h",
	SnapshotDir: "<dev_state>/snapshots",
	Database: configlibsql.Struct{
		File: "<dev_state>/marketsnap.db",
	},
	Browser: browser.Options{
		Kind:           browser.KindChrome,
		TimeoutSeconds: 60,
	},
}

// resolveLayout starts from the known layout of the configured version (layout.V1 if
// none is given) and overrides only the fields the config sets. An unknown version
// must bring its own columns.
func resolveLayout(l layout.Layout) (layout.Layout, error) {
	version := l.Version
	if version == "" {
		version = layout.V1.Version
	}
	hasColumns := l.Columns != (layout.Columns{})

	resolved, err := layout.Lookup(version)
	if err != nil {
		if !hasColumns {
			return layout.Layout{}, err
		}
		resolved = layout.Layout{
			Version:     version,
			PendingAttr: layout.V1.PendingAttr,
		}
	}

	if l.PendingAttr != "" {
		resolved.PendingAttr = l.PendingAttr
	}
	if l.Strict != nil {
		strict := *l.Strict
		resolved.Strict = &strict
	}
	if hasColumns {
		resolved.Columns = l.Columns
	}
	return resolved, resolved.Validate()
}

// loadConfig reads the config at `path` (and its .local override), any missing
// value is taken from defaultConfig.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if os.IsNotExist(err) {
		slog.Info("no config found, using defaults", "path", path)
		err = nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if cfg.Database.AuthToken == "" {
		cfg.Database.AuthToken = os.Getenv(authTokenEnv)
	}

	err = configutil.FillDefaults(&cfg, defaultConfig)
	if err != nil {
		return Config{}, err
	}
	cfg.Layout, err = resolveLayout(cfg.Layout)
	if err != nil {
		return Config{}, err
	}
	if cfg.TopN <= 0 {
		return Config{}, fmt.Errorf("top_n must be positive, got %d", cfg.TopN)
	}
	return cfg, nil
}
