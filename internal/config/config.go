// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and writes the keyforge configuration file. Settings
// are resolved through viper so the precedence is flags, then environment
// (KEYFORGE_*), then the config file, then built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"
)

// Config holds the settings keyforge reads from its config file.
type Config struct {
	// Cipher is the default cipher for newly protected keys.
	Cipher string `mapstructure:"cipher" yaml:"cipher"`
	// Rounds is the default bcrypt round count.
	Rounds uint32 `mapstructure:"rounds" yaml:"rounds"`
	// Language selects the output language ("en", "de").
	Language string `mapstructure:"language" yaml:"language"`
}

// Default returns the built-in settings, matching ssh-keygen's defaults
// where one exists.
func Default() Config {
	return Config{Cipher: "aes256-ctr", Rounds: 16, Language: "en"}
}

// Path returns the config file location: /etc/keyforge/keyforge.yaml (or the
// ProgramData equivalent on Windows) when system is true, otherwise
// keyforge.yaml under the user config directory.
func Path(system bool) (string, error) {
	var dir string
	if system {
		switch runtime.GOOS {
		case "windows":
			dir = filepath.Join(os.Getenv("ProgramData"), "Keyforge")
		default:
			dir = "/etc/keyforge"
		}
	} else {
		userDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		dir = filepath.Join(userDir, "keyforge")
	}
	return filepath.Join(dir, "keyforge.yaml"), nil
}

// Init wires defaults, search paths, and the environment into the global
// viper instance. When explicit is non-empty only that file is considered; a
// missing file is otherwise not an error.
func Init(explicit string) error {
	defaults := Default()
	viper.SetDefault("cipher", defaults.Cipher)
	viper.SetDefault("rounds", defaults.Rounds)
	viper.SetDefault("language", defaults.Language)

	if explicit != "" {
		viper.SetConfigFile(explicit)
	} else {
		viper.SetConfigName("keyforge")
		viper.SetConfigType("yaml")
		if userPath, err := Path(false); err == nil {
			viper.AddConfigPath(filepath.Dir(userPath))
		}
		if systemPath, err := Path(true); err == nil {
			viper.AddConfigPath(filepath.Dir(systemPath))
		}
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("keyforge")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && explicit == "" {
			return nil
		}
		return err
	}
	return nil
}

// Current returns the effective settings from the global viper instance.
func Current() Config {
	return Config{
		Cipher:   viper.GetString("cipher"),
		Rounds:   viper.GetUint32("rounds"),
		Language: viper.GetString("language"),
	}
}

// Write persists c to the config file location, creating the directory if
// needed.
func Write(c Config, system bool) error {
	path, err := Path(system)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0600)
}
