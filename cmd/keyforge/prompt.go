// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/toeirei/keyforge/internal/i18n"
)

// readPassphrase prompts on stderr and reads a passphrase without echo. It
// fails when stdin is not a terminal so scripts are forced onto the
// --passphrase flag instead of hanging.
func readPassphrase(promptID string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New(i18n.T("prompt.not_terminal"))
	}
	fmt.Fprint(os.Stderr, i18n.T(promptID))
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("%s", i18n.T("prompt.error_read", err))
	}
	return passphrase, nil
}

// readNewPassphrase prompts twice and requires both entries to match.
func readNewPassphrase() ([]byte, error) {
	passphrase, err := readPassphrase("prompt.new_passphrase")
	if err != nil {
		return nil, err
	}
	confirm, err := readPassphrase("prompt.confirm_passphrase")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(passphrase, confirm) {
		return nil, errors.New(i18n.T("prompt.mismatch"))
	}
	return passphrase, nil
}

// passphraseArg returns the --passphrase flag value when set, otherwise it
// prompts interactively.
func passphraseArg(flag string, promptID string) ([]byte, error) {
	if flag != "" {
		return []byte(flag), nil
	}
	return readPassphrase(promptID)
}
