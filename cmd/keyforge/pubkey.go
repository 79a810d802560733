// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/keyforge/internal/i18n"
)

// pubkeyCmd prints the authorized_keys line for a key file. The public key
// is readable without the passphrase; only the comment needs the private
// section, so it is included when the file is unencrypted.
var pubkeyCmd = &cobra.Command{
	Use:   "pubkey FILE",
	Short: "Print the authorized_keys line for a key file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		container, err := loadContainer(path)
		if err != nil {
			return err
		}
		if !container.IsEncrypted() {
			if decoded, err := container.Decrypt(nil); err == nil {
				container = decoded
			}
		}
		line, err := container.AuthorizedKey()
		if err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_parse", path, err))
		}
		fmt.Println(line)
		return nil
	},
}
