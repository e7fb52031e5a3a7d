package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".jvmsym.yaml"

// Load reads configuration with the following priority (highest first):
//  1. environment variables (JVMSYM_SCAN_WORKERS, ...)
//  2. the config file: file if non-empty, otherwise dir/.jvmsym.yaml
//  3. defaults
//
// A missing .jvmsym.yaml is not an error; a missing explicit file is.
func Load(dir, file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("JVMSYM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("scan.include", defaults.Scan.Include)
	v.SetDefault("scan.exclude", defaults.Scan.Exclude)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("scan.skip_synthetic", defaults.Scan.SkipSynthetic)

	v.SetDefault("log.verbosity", defaults.Log.Verbosity)
	v.SetDefault("log.file", defaults.Log.File)
}
