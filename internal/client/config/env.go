package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name, e.g. GIFTSWAP_DATA_PATH.
const EnvPrefix = "GIFTSWAP_"

// parseEnv overlays Config with the GIFTSWAP_* environment variables that are set.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}
