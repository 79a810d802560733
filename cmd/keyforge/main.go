// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Keyforge using the Cobra
// library. It defines the root command, subcommands (generate, inspect,
// protect, unprotect, pubkey, fingerprint, config), flags, and the entry
// point for execution.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toeirei/keyforge/buildvars"
	"github.com/toeirei/keyforge/internal/config"
	"github.com/toeirei/keyforge/internal/i18n"
	"github.com/toeirei/keyforge/internal/logging"
)

var (
	cfgFile string
	debug   bool
)

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command. A constructor
// keeps tests able to build fresh instances in isolation.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyforge",
		Short: "Keyforge inspects and protects OpenSSH private key files.",
		Long: `Keyforge works with keys in the OpenSSH private key format
("openssh-key-v1"). It can generate new keys, show a key file's cipher and
KDF parameters without needing the passphrase, and add, change, or remove
the passphrase protecting a key.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init(viper.GetString("language"))
			logging.SetDebug(debug)
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(generateCmd)
	cmd.AddCommand(inspectCmd)
	cmd.AddCommand(protectCmd)
	cmd.AddCommand(unprotectCmd)
	cmd.AddCommand(pubkeyCmd)
	cmd.AddCommand(fingerprintCmd)
	cmd.AddCommand(configCmd)

	cmd.Version = buildvars.VersionOrDefault("dev")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is keyforge.yaml in the user config dir or current dir)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)

	viper.BindPFlag("language", cmd.PersistentFlags().Lookup("lang"))

	return cmd
}

// initConfig reads the configuration file and environment variables. A
// missing file is only an error when one was named explicitly.
func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}
