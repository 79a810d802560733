// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toeirei/keyforge/internal/i18n"
	"github.com/toeirei/keyforge/internal/sshkey"
)

// inspectCmd shows a key file's header metadata. It never asks for a
// passphrase; everything printed is readable from the unencrypted part of
// the container.
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show a key file's algorithm, cipher, and KDF without decrypting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_read", path, err))
		}
		container, err := sshkey.Decode(data)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_parse", path, err))
		}

		// An unencrypted private section can be decoded in place to expose
		// the comment.
		if !container.IsEncrypted() {
			if decoded, err := container.Decrypt(nil); err == nil {
				container = decoded
			}
		}

		fmt.Println(i18n.T("inspect.algorithm", container.Algorithm()))
		fmt.Println(i18n.T("inspect.fingerprint", container.PublicKeys()[0].Fingerprint()))
		fmt.Println(i18n.T("inspect.cipher", container.Cipher()))
		kdf := container.Kdf()
		if kdf.Alg == sshkey.KdfBcrypt {
			fmt.Println(i18n.T("inspect.kdf_bcrypt", len(kdf.Salt), kdf.Rounds))
		} else {
			fmt.Println(i18n.T("inspect.kdf_none"))
		}
		protected := i18n.T("inspect.no")
		if container.IsEncrypted() {
			protected = i18n.T("inspect.yes")
		}
		fmt.Println(i18n.T("inspect.protected", protected))
		fmt.Println(i18n.T("inspect.keys", len(container.PublicKeys())))
		if comment := container.Comment(); comment != "" {
			fmt.Println(i18n.T("inspect.comment", comment))
		}
		return nil
	},
}
