// Package config loads runtime configuration for the giftswap CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via flags: -c or -config. JSON, or YAML
//     when the file ends in .yaml/.yml.
//  3. Environment variables prefixed with GIFTSWAP_.
//  4. Command-line flags, which override earlier values.
//
// The result is validated before it is returned.
//
// Supported flags
//
//	-d string   data path
//	-s string   storage driver (sqlite|badger)
//	-k string   history key
//	-l string   log level (debug|info|warn|error)
//
// # File schema
//
//	{
//	  "data_path": "giftswap.db",
//	  "storage_driver": "sqlite",
//	  "history_key": "matchesHistory",
//	  "log_level": "warn"
//	}
//
// Environment variables use the same names upper-cased, e.g.
// GIFTSWAP_STORAGE_DRIVER=badger.
package config
