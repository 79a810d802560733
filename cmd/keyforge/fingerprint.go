// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toeirei/keyforge/internal/i18n"
	"github.com/toeirei/keyforge/internal/sshkey"
)

// fingerprintCmd prints the SHA256 fingerprint of every key in a .pub or
// authorized_keys file. Private key files work too; their public section is
// readable without the passphrase.
var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint FILE",
	Short: "Print SHA256 fingerprints for the keys in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s", i18n.T("common.error_read", path, err))
		}

		if strings.Contains(string(data), "BEGIN OPENSSH PRIVATE KEY") {
			container, err := sshkey.Decode(data)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("common.error_parse", path, err))
			}
			for _, pub := range container.PublicKeys() {
				fmt.Println(i18n.T("fingerprint.line", pub.Fingerprint(), pub.Algorithm()))
			}
			return nil
		}

		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		found := false
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			pub, comment, err := sshkey.ParseAuthorizedKey(line)
			if err != nil {
				return fmt.Errorf("%s", i18n.T("common.error_parse", path, err))
			}
			if comment != "" {
				fmt.Println(i18n.T("fingerprint.line_comment", pub.Fingerprint(), pub.Algorithm(), comment))
			} else {
				fmt.Println(i18n.T("fingerprint.line", pub.Fingerprint(), pub.Algorithm()))
			}
			found = true
		}
		if !found {
			return fmt.Errorf("%s", i18n.T("fingerprint.no_keys", path))
		}
		return nil
	},
}
