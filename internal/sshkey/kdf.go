// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"fmt"

	"github.com/dchest/bcrypt_pbkdf"

	"github.com/toeirei/keyforge/internal/sshwire"
)

// KdfAlg identifies the key derivation function named in the container
// header. Like Cipher, the set is closed.
type KdfAlg uint8

const (
	// KdfNone performs no derivation; it pairs with CipherNone only.
	KdfNone KdfAlg = iota
	// KdfBcrypt is OpenSSH's bcrypt_pbkdf with a per-key salt and a
	// tunable round count.
	KdfBcrypt
)

const (
	kdfNameNone   = "none"
	kdfNameBcrypt = "bcrypt"
)

// Kdf describes the key derivation applied to the passphrase: an algorithm
// plus its parameters. For KdfNone, Salt is empty and Rounds is zero.
type Kdf struct {
	Alg    KdfAlg
	Salt   []byte
	Rounds uint32
}

// String returns the KDF's wire name.
func (k Kdf) String() string {
	if k.Alg == KdfBcrypt {
		return kdfNameBcrypt
	}
	return kdfNameNone
}

// parseKdf validates a KDF name and decodes its options blob. For bcrypt the
// blob is a length-prefixed salt followed by a 32-bit round count; for none
// it must be empty.
func parseKdf(name string, options []byte) (Kdf, error) {
	switch name {
	case kdfNameNone:
		if len(options) != 0 {
			return Kdf{}, fmt.Errorf("%w: %d option bytes for kdf none", ErrInvalidKdfParams, len(options))
		}
		return Kdf{Alg: KdfNone}, nil
	case kdfNameBcrypt:
		r := sshwire.NewReader(options)
		salt, err := r.Bytes()
		if err != nil {
			return Kdf{}, fmt.Errorf("%w: bad bcrypt salt: %v", ErrInvalidKdfParams, err)
		}
		rounds, err := r.Uint32()
		if err != nil {
			return Kdf{}, fmt.Errorf("%w: bad bcrypt rounds: %v", ErrInvalidKdfParams, err)
		}
		if r.Remaining() != 0 {
			return Kdf{}, fmt.Errorf("%w: %d trailing bytes in bcrypt options", ErrInvalidKdfParams, r.Remaining())
		}
		if len(salt) == 0 {
			return Kdf{}, fmt.Errorf("%w: empty bcrypt salt", ErrInvalidKdfParams)
		}
		if rounds == 0 {
			return Kdf{}, fmt.Errorf("%w: zero bcrypt rounds", ErrInvalidKdfParams)
		}
		return Kdf{Alg: KdfBcrypt, Salt: salt, Rounds: rounds}, nil
	default:
		return Kdf{}, fmt.Errorf("%w: %q", ErrUnsupportedKdf, name)
	}
}

// marshalOptions encodes the KDF parameters back into the options blob.
func (k Kdf) marshalOptions() []byte {
	if k.Alg == KdfNone {
		return nil
	}
	var w sshwire.Writer
	w.WriteBytes(k.Salt)
	w.WriteUint32(k.Rounds)
	return w.Bytes()
}

// Derive stretches the passphrase into length bytes of key material. The
// caller splits the result into cipher key and IV.
func (k Kdf) Derive(password []byte, length int) ([]byte, error) {
	switch k.Alg {
	case KdfBcrypt:
		out, err := bcrypt_pbkdf.Key(password, k.Salt, int(k.Rounds), length)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKdfParams, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot derive with kdf %s", ErrInvalidKdfParams, k)
	}
}
