// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/toeirei/keyforge/internal/sshkey"
)

func withViper(t *testing.T, key string, value any) {
	t.Helper()
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, nil) })
}

func TestParseCipherFlag(t *testing.T) {
	ciph, err := parseCipherFlag("aes256-cbc")
	if err != nil {
		t.Fatalf("parseCipherFlag failed: %v", err)
	}
	if ciph != sshkey.CipherAES256CBC {
		t.Errorf("got %v", ciph)
	}

	if _, err := parseCipherFlag("rot13"); err == nil {
		t.Error("expected an error for an unknown cipher name")
	}
}

func TestParseCipherFlagConfigFallback(t *testing.T) {
	withViper(t, "cipher", "aes256-gcm@openssh.com")
	ciph, err := parseCipherFlag("")
	if err != nil {
		t.Fatalf("parseCipherFlag failed: %v", err)
	}
	if ciph != sshkey.CipherAES256GCM {
		t.Errorf("got %v", ciph)
	}
}

func TestEncryptOptionsRoundsFallback(t *testing.T) {
	withViper(t, "cipher", "aes256-ctr")
	withViper(t, "rounds", 24)
	opts, err := encryptOptions("", 0)
	if err != nil {
		t.Fatalf("encryptOptions failed: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("got %d options", len(opts))
	}
}

func TestEncryptOptionsRejectsUnknownCipher(t *testing.T) {
	if _, err := encryptOptions("rot13", 16); err == nil {
		t.Error("expected an error for an unknown cipher name")
	}
}

func TestRootCmdWiring(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"generate", "inspect", "protect", "unprotect", "pubkey", "fingerprint", "config"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}
	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
	if cmd.PersistentFlags().Lookup("lang") == nil {
		t.Error("missing --lang flag")
	}
}
