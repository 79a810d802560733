// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/keyforge/internal/i18n"
	"github.com/toeirei/keyforge/internal/sshkey"
)

var (
	generateOut        string
	generateComment    string
	generateCipher     string
	generateRounds     uint32
	generatePassphrase string
	generatePlain      bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "id_ed25519", "output file for the private key")
	generateCmd.Flags().StringVarP(&generateComment, "comment", "c", "", "key comment")
	generateCmd.Flags().StringVar(&generateCipher, "cipher", "", "cipher for passphrase protection (default from config)")
	generateCmd.Flags().Uint32Var(&generateRounds, "rounds", 0, "bcrypt rounds (default from config)")
	generateCmd.Flags().StringVar(&generatePassphrase, "passphrase", "", "passphrase (prompts when unset)")
	generateCmd.Flags().BoolVar(&generatePlain, "no-passphrase", false, "write the key unencrypted")
}

// generateCmd creates a new ed25519 key pair and writes the private key in
// OpenSSH format plus an authorized_keys line alongside it.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new ed25519 key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("generate.error_keygen", err))
		}
		container, err := sshkey.NewEd25519Container(rand.Reader, priv, generateComment)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("generate.error_keygen", err))
		}

		// Render the public line before encrypting; the comment lives in
		// the private section and becomes unreadable afterwards.
		authorized, err := container.AuthorizedKey()
		if err != nil {
			return fmt.Errorf("%s", i18n.T("generate.error_keygen", err))
		}

		if !generatePlain {
			passphrase := []byte(generatePassphrase)
			if len(passphrase) == 0 {
				passphrase, err = readNewPassphrase()
				if err != nil {
					return err
				}
			}
			if len(passphrase) > 0 {
				opts, err := encryptOptions(generateCipher, generateRounds)
				if err != nil {
					return err
				}
				container, err = container.Encrypt(rand.Reader, passphrase, opts...)
				if err != nil {
					return fmt.Errorf("%s", i18n.T("common.error_encrypt", generateOut, err))
				}
			}
		}

		if err := os.WriteFile(generateOut, container.Encode(), 0o600); err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_write", generateOut, err))
		}
		pubPath := generateOut + ".pub"
		if err := os.WriteFile(pubPath, []byte(authorized+"\n"), 0o644); err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_write", pubPath, err))
		}

		fmt.Println(i18n.T("generate.wrote_private", generateOut))
		fmt.Println(i18n.T("generate.wrote_public", pubPath))
		return nil
	},
}

// encryptOptions assembles Encrypt options from flags with config-file
// fallbacks.
func encryptOptions(cipherName string, rounds uint32) ([]sshkey.EncryptOption, error) {
	ciph, err := parseCipherFlag(cipherName)
	if err != nil {
		return nil, err
	}
	if rounds == 0 {
		rounds = viper.GetUint32("rounds")
	}
	return []sshkey.EncryptOption{sshkey.WithCipher(ciph), sshkey.WithRounds(rounds)}, nil
}

// parseCipherFlag resolves a cipher name from flag or config, failing on
// unknown names instead of silently falling back.
func parseCipherFlag(name string) (sshkey.Cipher, error) {
	if name == "" {
		name = viper.GetString("cipher")
	}
	ciph, err := sshkey.ParseCipher(name)
	if err != nil {
		return 0, errors.New(i18n.T("common.error_cipher", name))
	}
	return ciph, nil
}
