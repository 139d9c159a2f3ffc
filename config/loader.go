package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

//envPrefix is the environment variable prefix used by all settings.
const envPrefix = "GORIF"

//newViper builds a Viper instance with YAML file type, GORIF_ env prefix,
//automatic env binding, a "." → "_" key replacer (so "cluster.frac" resolves
//to GORIF_CLUSTER_FRAC) and every default registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

//Load reads the YAML file at configPath, merges any GORIF_* environment
//overrides, applies defaults for unset fields and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

//LoadFromEnv builds a Config from GORIF_* environment variables and defaults
//alone, with no config file.
//
//	GORIF_<SECTION>_<FIELD>   e.g.  GORIF_CLUSTER_FRAC, GORIF_LOG_LEVEL
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
