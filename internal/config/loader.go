package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config.yaml"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
//
// The YAML path is the first non-empty of: path argument, CONFIG_PATH env,
// "./config.yaml". An explicitly named file must exist; the default file is
// optional and, when absent, configuration comes from ENV + defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if !explicit {
		path = defaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
