package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	devenv "marketsnap/dev/env"
	"marketsnap/internal/db"

	_ "modernc.org/sqlite"
)

func CreateEmptyDB() error {
	dbPath, err := devenv.ResolvePath("<dev_state>/marketsnap.db")
	if err != nil {
		return err
	}

	_, err = os.Stat(dbPath)
	if err == nil {
		fmt.Println("database already created at", dbPath)
		return nil
	}

	fmt.Println("creating database at", dbPath)
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	_, err = database.Exec(db.Schema)
	return err
}

const defaultConfig = `{
    url: "https://coinmarketcap.com/",
    top_n: 100,
    schedule: "@every 1h",
    snapshot_dir: "<dev_state>/snapshots",
    dump_dir: "<dev_state>/dumps",
    database: {
        file: "<dev_state>/marketsnap.db",
    },
    browser: {
        // "chrome" renders the page, "http" only sees server rendered rows
        kind: "chrome",
        headless: true,
        timeout_seconds: 60,
    },
    layout: {
        version: "v1",
    },
}
`

func CreateDefaultConfig() error {
	_, err := os.Stat("config.json5")
	if err == nil {
		fmt.Println("config.json5 already exists")
		return nil
	}
	fmt.Println("writing config.json5")
	return os.WriteFile("config.json5", []byte(defaultConfig), 0644)
}

func PrintConfigLocations() {
	slog.Info("marketsnap reads config.json5 (and config.local.json5 for overrides) from the current directory, pass --config to use another file.")
	slog.Info("telemetry is only exported if a telemetry.json5 exists in the current directory or one of its parents.")
}
