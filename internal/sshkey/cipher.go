// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// Cipher identifies one of the symmetric ciphers the container format
// supports. The set is closed: the format only ever names a fixed handful of
// ciphers, so this is an enumeration rather than a registry.
type Cipher uint8

const (
	// CipherNone stores the private section in the clear.
	CipherNone Cipher = iota
	// CipherAES256CBC is AES-256 in CBC mode.
	CipherAES256CBC
	// CipherAES256CTR is AES-256 in CTR mode, the OpenSSH default.
	CipherAES256CTR
	// CipherAES256GCM is AES-256-GCM with a 16-byte tag appended after the
	// private section string.
	CipherAES256GCM
)

const (
	cipherNameNone      = "none"
	cipherNameAES256CBC = "aes256-cbc"
	cipherNameAES256CTR = "aes256-ctr"
	cipherNameAES256GCM = "aes256-gcm@openssh.com"
)

// errCipherAuth is the internal AEAD open failure; callers collapse it into
// ErrIncorrectPassword before it reaches the public surface.
var errCipherAuth = errors.New("sshkey: cipher authentication failed")

// ParseCipher maps a cipher name from the container header to a Cipher.
func ParseCipher(name string) (Cipher, error) {
	switch name {
	case cipherNameNone:
		return CipherNone, nil
	case cipherNameAES256CBC:
		return CipherAES256CBC, nil
	case cipherNameAES256CTR:
		return CipherAES256CTR, nil
	case cipherNameAES256GCM:
		return CipherAES256GCM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCipher, name)
	}
}

// String returns the cipher's wire name as it appears in the container.
func (c Cipher) String() string {
	switch c {
	case CipherNone:
		return cipherNameNone
	case CipherAES256CBC:
		return cipherNameAES256CBC
	case CipherAES256CTR:
		return cipherNameAES256CTR
	case CipherAES256GCM:
		return cipherNameAES256GCM
	default:
		return fmt.Sprintf("sshkey.Cipher(%d)", uint8(c))
	}
}

// KeySize returns the symmetric key length in bytes.
func (c Cipher) KeySize() int {
	if c == CipherNone {
		return 0
	}
	return 32
}

// IVSize returns the IV (or GCM nonce) length in bytes.
func (c Cipher) IVSize() int {
	switch c {
	case CipherNone:
		return 0
	case CipherAES256GCM:
		return 12
	default:
		return 16
	}
}

// BlockSize returns the alignment the plaintext private section is padded
// to. OpenSSH pads to 8 even when no cipher is in use.
func (c Cipher) BlockSize() int {
	if c == CipherNone {
		return 8
	}
	return 16
}

// TagSize returns the length of the authentication tag appended after the
// private section, or 0 for unauthenticated ciphers.
func (c Cipher) TagSize() int {
	if c == CipherAES256GCM {
		return 16
	}
	return 0
}

// Authenticated reports whether the cipher produces and verifies a tag.
func (c Cipher) Authenticated() bool {
	return c.TagSize() > 0
}

// Encrypt transforms the padded plaintext section into ciphertext plus a
// detached tag (nil for unauthenticated ciphers). The plaintext must already
// be aligned to BlockSize.
func (c Cipher) Encrypt(key, iv, plaintext []byte) (ciphertext, tag []byte, err error) {
	if err := c.checkParams(key, iv); err != nil {
		return nil, nil, err
	}
	switch c {
	case CipherAES256CBC:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, nil, err
		}
		if len(plaintext)%aes.BlockSize != 0 {
			return nil, nil, fmt.Errorf("sshkey: cbc plaintext not block aligned (%d bytes)", len(plaintext))
		}
		out := make([]byte, len(plaintext))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
		return out, nil, nil
	case CipherAES256CTR:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, nil, err
		}
		out := make([]byte, len(plaintext))
		cipher.NewCTR(block, iv).XORKeyStream(out, plaintext)
		return out, nil, nil
	case CipherAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, nil, err
		}
		sealed := aead.Seal(nil, iv, plaintext, nil)
		split := len(sealed) - aead.Overhead()
		return sealed[:split], sealed[split:], nil
	default:
		return nil, nil, fmt.Errorf("%w: cannot encrypt with %s", ErrUnsupportedCipher, c)
	}
}

// Decrypt reverses Encrypt. For authenticated ciphers a tag of TagSize bytes
// is required and verified; a mismatch yields errCipherAuth.
func (c Cipher) Decrypt(key, iv, ciphertext, tag []byte) ([]byte, error) {
	if err := c.checkParams(key, iv); err != nil {
		return nil, err
	}
	switch c {
	case CipherAES256CBC:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		if len(ciphertext)%aes.BlockSize != 0 {
			return nil, fmt.Errorf("%w: cbc ciphertext not block aligned", ErrBadFormat)
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
		return out, nil
	case CipherAES256CTR:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCTR(block, iv).XORKeyStream(out, ciphertext)
		return out, nil
	case CipherAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, err
		}
		if len(tag) != aead.Overhead() {
			return nil, fmt.Errorf("%w: tag is %d bytes, want %d", ErrBadFormat, len(tag), aead.Overhead())
		}
		sealed := make([]byte, 0, len(ciphertext)+len(tag))
		sealed = append(sealed, ciphertext...)
		sealed = append(sealed, tag...)
		out, err := aead.Open(nil, iv, sealed, nil)
		if err != nil {
			return nil, errCipherAuth
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot decrypt with %s", ErrUnsupportedCipher, c)
	}
}

func (c Cipher) checkParams(key, iv []byte) error {
	if len(key) != c.KeySize() || len(iv) != c.IVSize() {
		return fmt.Errorf("sshkey: derived key material has wrong length for %s: key %d, iv %d", c, len(key), len(iv))
	}
	return nil
}
