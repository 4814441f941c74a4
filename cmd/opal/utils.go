package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alabama-forward/opal/config"
	"github.com/alabama-forward/opal/store"
	"github.com/briandowns/spinner"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// openStore opens the database at dsn, or returns nil when storage is
// disabled.
func openStore(dsn string) *store.Store {
	if dsn == "" {
		return nil
	}

	st, err := store.Open(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	return st
}

// errNoStoreDSN is returned when --store is given without a database.
var errNoStoreDSN = errors.New("--store requires OPAL_STORE_DSN or storage.dsn in the config file")

// checkStoreFlag reports whether a --store run can save anything.
func checkStoreFlag(save bool, dsn string) error {
	if save && dsn == "" {
		return errNoStoreDSN
	}
	return nil
}

// requireStore opens the configured database, exiting when none is
// configured.
func requireStore(cfg *config.FileConfig) *store.Store {
	st := openStore(cfg.Storage.DSN)
	if st == nil {
		fmt.Fprintln(os.Stderr, "Error: no database configured: set OPAL_STORE_DSN or storage.dsn in the config file")
		os.Exit(1)
	}
	return st
}

// newSpinner returns a spinner writing to stderr so it never mixes with
// result output.
func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}
