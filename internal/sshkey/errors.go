// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import "errors"

var (
	// ErrBadFormat reports a structurally malformed key file: wrong magic,
	// truncated fields, missing armor, or an inconsistent key count.
	ErrBadFormat = errors.New("sshkey: malformed key file")

	// ErrTrailingData reports extra bytes after the final field of the
	// container record. Trailing garbage is never ignored.
	ErrTrailingData = errors.New("sshkey: trailing data after key record")

	// ErrUnsupportedCipher reports a cipher name outside the supported set.
	ErrUnsupportedCipher = errors.New("sshkey: unsupported cipher")

	// ErrUnsupportedKdf reports a KDF name outside the supported set.
	ErrUnsupportedKdf = errors.New("sshkey: unsupported kdf")

	// ErrUnsupportedKeyType reports an unknown key algorithm tag.
	ErrUnsupportedKeyType = errors.New("sshkey: unsupported key type")

	// ErrInvalidKdfParams reports unusable KDF parameters: zero rounds, an
	// empty salt, a non-empty options blob for the "none" KDF, or a
	// cipher/KDF pairing the format forbids.
	ErrInvalidKdfParams = errors.New("sshkey: invalid kdf parameters")

	// ErrIncorrectPassword is the single error surfaced for every failure
	// mode of decrypting with a wrong passphrase: AEAD tag mismatch,
	// checkint mismatch, or malformed padding. The specific cause is not
	// exposed so callers cannot be used as a password-guessing oracle; it is
	// logged at debug level only.
	ErrIncorrectPassword = errors.New("sshkey: incorrect passphrase or corrupted key")

	// ErrChecksumMismatch reports unequal checkints in an unencrypted
	// private section, which indicates corruption.
	ErrChecksumMismatch = errors.New("sshkey: private section checksum mismatch")

	// ErrBadPadding reports padding in an unencrypted private section that
	// is not the expected incrementing byte sequence.
	ErrBadPadding = errors.New("sshkey: invalid private section padding")

	// ErrNotEncrypted is returned by Decrypt when the container's private
	// section has already been decoded.
	ErrNotEncrypted = errors.New("sshkey: container is not encrypted")

	// ErrEncrypted is returned by operations that need decoded key material
	// while the private section is still opaque.
	ErrEncrypted = errors.New("sshkey: container is encrypted; decrypt it first")
)
