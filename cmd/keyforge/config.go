// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/keyforge/internal/config"
	"github.com/toeirei/keyforge/internal/i18n"
)

var configSystem bool

func init() {
	configInitCmd.Flags().BoolVar(&configSystem, "system", false, "write the system-wide config instead of the user one")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the keyforge configuration",
}

// configInitCmd writes the effective settings to the config file, so a user
// can pin their flag and environment overrides.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := config.Current()
		if err := config.Write(c, configSystem); err != nil {
			return fmt.Errorf("%s", i18n.T("config.error_write", err))
		}
		path, err := config.Path(configSystem)
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("config.written", path))
		return nil
	},
}

// configShowCmd prints the effective settings after file, environment, and
// flag resolution.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := config.Current()
		fmt.Println(i18n.T("config.cipher", c.Cipher))
		fmt.Println(i18n.T("config.rounds", c.Rounds))
		fmt.Println(i18n.T("config.language", c.Language))
		return nil
	},
}
