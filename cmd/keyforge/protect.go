// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toeirei/keyforge/internal/i18n"
	"github.com/toeirei/keyforge/internal/sshkey"
)

var (
	protectCipher        string
	protectRounds        uint32
	protectOldPassphrase string
	protectNewPassphrase string
)

func init() {
	protectCmd.Flags().StringVar(&protectCipher, "cipher", "", "cipher to protect with (default from config)")
	protectCmd.Flags().Uint32Var(&protectRounds, "rounds", 0, "bcrypt rounds (default from config)")
	protectCmd.Flags().StringVar(&protectOldPassphrase, "passphrase", "", "current passphrase (prompts when unset)")
	protectCmd.Flags().StringVar(&protectNewPassphrase, "new-passphrase", "", "new passphrase (prompts when unset)")

	unprotectCmd.Flags().StringVar(&unprotectPassphrase, "passphrase", "", "current passphrase (prompts when unset)")
}

// protectCmd sets or changes the passphrase on a key file, re-encrypting the
// private section with a fresh salt and IV.
var protectCmd = &cobra.Command{
	Use:   "protect FILE",
	Short: "Set or change a key file's passphrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		container, err := loadContainer(path)
		if err != nil {
			return err
		}

		plain, err := decryptWithPrompt(container, path, protectOldPassphrase)
		if err != nil {
			return err
		}

		passphrase := []byte(protectNewPassphrase)
		if len(passphrase) == 0 {
			passphrase, err = readNewPassphrase()
			if err != nil {
				return err
			}
		}
		opts, err := encryptOptions(protectCipher, protectRounds)
		if err != nil {
			return err
		}
		protected, err := plain.Encrypt(rand.Reader, passphrase, opts...)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_encrypt", path, err))
		}

		if err := os.WriteFile(path, protected.Encode(), 0o600); err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_write", path, err))
		}
		fmt.Println(i18n.T("protect.success", path, protected.Cipher()))
		return nil
	},
}

var unprotectPassphrase string

// unprotectCmd removes the passphrase from a key file, storing the private
// section in the clear.
var unprotectCmd = &cobra.Command{
	Use:   "unprotect FILE",
	Short: "Remove a key file's passphrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		container, err := loadContainer(path)
		if err != nil {
			return err
		}
		if !container.IsEncrypted() {
			fmt.Println(i18n.T("unprotect.not_encrypted", path))
			return nil
		}

		plain, err := decryptWithPrompt(container, path, unprotectPassphrase)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, plain.Encode(), 0o600); err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_write", path, err))
		}
		fmt.Println(i18n.T("unprotect.success", path))
		return nil
	},
}

// loadContainer reads and decodes one key file.
func loadContainer(path string) (*sshkey.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s", i18n.T("common.error_read", path, err))
	}
	container, err := sshkey.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s", i18n.T("common.error_parse", path, err))
	}
	return container, nil
}

// decryptWithPrompt decrypts a container, asking for the passphrase only
// when the file actually needs one.
func decryptWithPrompt(container *sshkey.Container, path, flagValue string) (*sshkey.Container, error) {
	var passphrase []byte
	if container.IsEncrypted() {
		var err error
		passphrase, err = passphraseArg(flagValue, "prompt.passphrase")
		if err != nil {
			return nil, err
		}
	}
	plain, err := container.Decrypt(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%s", i18n.T("common.error_decrypt", path, err))
	}
	return plain, nil
}
