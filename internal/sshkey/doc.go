// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshkey implements the OpenSSH private key container format
// ("openssh-key-v1"): decoding an armored, possibly passphrase-protected key
// file into a structured Container, and encoding a Container back to the
// exact same wire representation.
//
// A Container decoded from an encrypted file keeps its private section as
// opaque bytes until Decrypt is called with the passphrase. Decrypt and
// Encrypt are pure transforms that return a new Container and never modify
// their receiver, so values can be shared freely across goroutines as long
// as no caller mutates them.
//
// The format's key derivation (bcrypt-style, tunable rounds) is deliberately
// slow; callers on latency-sensitive paths should run Decrypt off the hot
// path. There is no internal cancellation or timeout.
package sshkey
