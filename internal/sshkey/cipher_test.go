// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseCipher(t *testing.T) {
	cases := []struct {
		name string
		want Cipher
	}{
		{"none", CipherNone},
		{"aes256-cbc", CipherAES256CBC},
		{"aes256-ctr", CipherAES256CTR},
		{"aes256-gcm@openssh.com", CipherAES256GCM},
	}
	for _, tc := range cases {
		got, err := ParseCipher(tc.name)
		if err != nil {
			t.Fatalf("ParseCipher(%q) failed: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("ParseCipher(%q) = %v, want %v", tc.name, got, tc.want)
		}
		if got.String() != tc.name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tc.name)
		}
	}

	if _, err := ParseCipher("chacha20-poly1305@openssh.com"); !errors.Is(err, ErrUnsupportedCipher) {
		t.Errorf("expected ErrUnsupportedCipher, got %v", err)
	}
	if _, err := ParseCipher(""); !errors.Is(err, ErrUnsupportedCipher) {
		t.Errorf("expected ErrUnsupportedCipher for empty name, got %v", err)
	}
}

func TestCipherGeometry(t *testing.T) {
	cases := []struct {
		cipher              Cipher
		key, iv, block, tag int
		authenticated       bool
	}{
		{CipherNone, 0, 0, 8, 0, false},
		{CipherAES256CBC, 32, 16, 16, 0, false},
		{CipherAES256CTR, 32, 16, 16, 0, false},
		{CipherAES256GCM, 32, 12, 16, 16, true},
	}
	for _, tc := range cases {
		if got := tc.cipher.KeySize(); got != tc.key {
			t.Errorf("%v.KeySize() = %d, want %d", tc.cipher, got, tc.key)
		}
		if got := tc.cipher.IVSize(); got != tc.iv {
			t.Errorf("%v.IVSize() = %d, want %d", tc.cipher, got, tc.iv)
		}
		if got := tc.cipher.BlockSize(); got != tc.block {
			t.Errorf("%v.BlockSize() = %d, want %d", tc.cipher, got, tc.block)
		}
		if got := tc.cipher.TagSize(); got != tc.tag {
			t.Errorf("%v.TagSize() = %d, want %d", tc.cipher, got, tc.tag)
		}
		if got := tc.cipher.Authenticated(); got != tc.authenticated {
			t.Errorf("%v.Authenticated() = %v, want %v", tc.cipher, got, tc.authenticated)
		}
	}
}

func TestCipherRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	plaintext := bytes.Repeat([]byte{0xa5}, 64)

	for _, ciph := range []Cipher{CipherAES256CBC, CipherAES256CTR, CipherAES256GCM} {
		iv := bytes.Repeat([]byte{0x17}, ciph.IVSize())
		ciphertext, tag, err := ciph.Encrypt(key, iv, plaintext)
		if err != nil {
			t.Fatalf("%v.Encrypt failed: %v", ciph, err)
		}
		if len(tag) != ciph.TagSize() {
			t.Errorf("%v produced a %d byte tag, want %d", ciph, len(tag), ciph.TagSize())
		}
		if bytes.Equal(ciphertext, plaintext) {
			t.Errorf("%v ciphertext equals plaintext", ciph)
		}
		got, err := ciph.Decrypt(key, iv, ciphertext, tag)
		if err != nil {
			t.Fatalf("%v.Decrypt failed: %v", ciph, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("%v round trip mismatch", ciph)
		}
	}
}

func TestGCMTagMismatch(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	iv := bytes.Repeat([]byte{0x17}, 12)
	plaintext := bytes.Repeat([]byte{0xa5}, 32)

	ciphertext, tag, err := CipherAES256GCM.Encrypt(key, iv, plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	tag[0] ^= 1
	if _, err := CipherAES256GCM.Decrypt(key, iv, ciphertext, tag); !errors.Is(err, errCipherAuth) {
		t.Errorf("expected errCipherAuth for tampered tag, got %v", err)
	}

	tag[0] ^= 1
	ciphertext[0] ^= 1
	if _, err := CipherAES256GCM.Decrypt(key, iv, ciphertext, tag); !errors.Is(err, errCipherAuth) {
		t.Errorf("expected errCipherAuth for tampered ciphertext, got %v", err)
	}
}

func TestCipherRejectsBadKeyMaterial(t *testing.T) {
	if _, _, err := CipherAES256CTR.Encrypt(make([]byte, 16), make([]byte, 16), nil); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := CipherAES256GCM.Decrypt(make([]byte, 32), make([]byte, 12), make([]byte, 16), nil); err == nil {
		t.Error("expected error for missing tag")
	}
	if _, _, err := CipherAES256CBC.Encrypt(make([]byte, 32), make([]byte, 16), make([]byte, 15)); err == nil {
		t.Error("expected error for unaligned cbc plaintext")
	}
}
