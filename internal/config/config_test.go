// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/toeirei/keyforge/internal/config"
)

func resetViper() {
	viper.Reset()
}

func TestInitDefaultsWhenNoFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	resetViper()
	defer resetViper()

	if err := config.Init(""); err != nil {
		t.Fatalf("Init with no config file: %v", err)
	}
	got := config.Current()
	if got != config.Default() {
		t.Errorf("Current() = %+v, want defaults %+v", got, config.Default())
	}
}

func TestInitReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "custom.yaml")
	if err := os.WriteFile(path, []byte("cipher: aes256-gcm@openssh.com\nrounds: 24\n"), 0600); err != nil {
		t.Fatal(err)
	}

	resetViper()
	defer resetViper()

	if err := config.Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got := config.Current()
	if got.Cipher != "aes256-gcm@openssh.com" || got.Rounds != 24 {
		t.Errorf("Current() = %+v", got)
	}
	// Unset values still fall back to defaults.
	if got.Language != "en" {
		t.Errorf("language = %q", got.Language)
	}
}

func TestInitExplicitFileMissingIsError(t *testing.T) {
	resetViper()
	defer resetViper()

	if err := config.Init(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestWriteCreatesFile(t *testing.T) {
	tmp := t.TempDir()
	os.Setenv("XDG_CONFIG_HOME", tmp)
	defer os.Unsetenv("XDG_CONFIG_HOME")

	c := config.Config{Cipher: "aes256-cbc", Rounds: 32, Language: "de"}
	if err := config.Write(c, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	path, err := config.Path(false)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	for _, want := range []string{"cipher: aes256-cbc", "rounds: 32", "language: de"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("written config missing %q:\n%s", want, data)
		}
	}

	// Round-trip through Init.
	resetViper()
	defer resetViper()
	if err := config.Init(path); err != nil {
		t.Fatalf("Init on written file: %v", err)
	}
	if got := config.Current(); got != c {
		t.Errorf("Current() = %+v, want %+v", got, c)
	}
}
