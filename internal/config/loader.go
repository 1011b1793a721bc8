package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix    = "CHANSERV"
	envConfigDir = envPrefix + "_CONFIG_DIR"
	fileName     = "config.yaml"
)

const fileHeader = "# chanserv configuration; CHANSERV_* environment variables take precedence.\n"

// Load resolves configuration with precedence defaults < file < CHANSERV_* env,
// validates it and returns it with the file path used. A missing file is
// seeded with the defaults so operators have something to edit.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	defaults := Default()
	path := ConfigPath(explicitPath)

	if created, err := ensureFile(path, defaults); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("config file unavailable, using defaults and env")
	} else if created {
		logger.Info().Str("path", path).Msg("created default config")
	}

	v, err := newViper(defaults)
	if err != nil {
		return defaults, path, err
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !missing(err) {
		return defaults, path, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, path, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

// ConfigPath picks the config file: the explicit path, then
// $CHANSERV_CONFIG_DIR/config.yaml, then ./config.yaml.
func ConfigPath(explicit string) string {
	switch {
	case explicit != "":
		return explicit
	case os.Getenv(envConfigDir) != "":
		return filepath.Join(os.Getenv(envConfigDir), fileName)
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, fileName)
	}
	return fileName
}

// newViper registers every yaml key of defaults so AutomaticEnv can see it.
func newViper(defaults Config) (*viper.Viper, error) {
	raw, err := yaml.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	var keys map[string]any
	if err := yaml.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range keys {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// ensureFile writes defaults to path unless something is already there.
func ensureFile(path string, defaults Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	body, err := yaml.Marshal(defaults)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), body...), 0o600); err != nil {
		return false, err
	}
	return true, nil
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
