package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/giftswap/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data path (SQLite file or BadgerDB directory)
//	-s string   storage driver: sqlite or badger
//	-k string   history key
//	-l string   log level: debug, info, warn, error
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so -c/-config can be handled elsewhere.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataPath, "d", cfg.DataPath, "data path")
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "storage driver (sqlite|badger)")
	fs.StringVar(&cfg.HistoryKey, "k", cfg.HistoryKey, "history key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
