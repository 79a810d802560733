// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"bytes"
	"fmt"

	"github.com/toeirei/keyforge/internal/sshwire"
)

// Magic is the fixed marker every container starts with, including the
// terminating NUL.
const Magic = "openssh-key-v1\x00"

// Unmarshal decodes the binary container record. The private section is left
// opaque; call Decrypt on the result to get at the key material.
func Unmarshal(data []byte) (*Container, error) {
	if len(data) < len(Magic) || !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, fmt.Errorf("%w: bad magic", ErrBadFormat)
	}
	r := sshwire.NewReader(data[len(Magic):])

	cipherName, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("%w: cipher name: %v", ErrBadFormat, err)
	}
	ciph, err := ParseCipher(cipherName)
	if err != nil {
		return nil, err
	}
	kdfName, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("%w: kdf name: %v", ErrBadFormat, err)
	}
	kdfOptions, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: kdf options: %v", ErrBadFormat, err)
	}
	kdf, err := parseKdf(kdfName, kdfOptions)
	if err != nil {
		return nil, err
	}
	// An unencrypted key always pairs with the none KDF and an encrypted
	// one with a real KDF; any other combination is malformed.
	if (ciph == CipherNone) != (kdf.Alg == KdfNone) {
		return nil, fmt.Errorf("%w: cipher %s with kdf %s", ErrInvalidKdfParams, ciph, kdf)
	}

	count, err := r.Uint32()
	if err != nil {
		return nil, fmt.Errorf("%w: key count: %v", ErrBadFormat, err)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: key count is zero", ErrBadFormat)
	}
	publicKeys := make([]PublicKey, 0, count)
	for i := uint32(0); i < count; i++ {
		blob, err := r.Bytes()
		if err != nil {
			return nil, fmt.Errorf("%w: public key %d: %v", ErrBadFormat, i, err)
		}
		pub, err := parsePublicBlob(blob)
		if err != nil {
			return nil, err
		}
		publicKeys = append(publicKeys, pub)
	}

	private, err := r.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: private section: %v", ErrBadFormat, err)
	}
	var tag []byte
	if ciph.Authenticated() {
		tag, err = r.Raw(ciph.TagSize())
		if err != nil {
			return nil, fmt.Errorf("%w: missing authentication tag", ErrBadFormat)
		}
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, r.Remaining())
	}
	if ciph != CipherNone && len(private)%ciph.BlockSize() != 0 {
		return nil, fmt.Errorf("%w: encrypted section is %d bytes, not a multiple of %d",
			ErrBadFormat, len(private), ciph.BlockSize())
	}

	return &Container{
		cipher:     ciph,
		kdf:        kdf,
		publicKeys: publicKeys,
		raw:        private,
		tag:        tag,
	}, nil
}

// Marshal encodes the container back into the binary record. For a container
// holding decoded key material the private section is rebuilt
// deterministically from the preserved checkint, so decode/encode round
// trips are byte exact.
func (c *Container) Marshal() []byte {
	raw, tag := c.raw, c.tag
	if raw == nil {
		raw = buildPrivateSection(c.checkint, c.keys, c.cipher.BlockSize())
	}
	var w sshwire.Writer
	w.WriteRaw([]byte(Magic))
	w.WriteString(c.cipher.String())
	w.WriteString(c.kdf.String())
	w.WriteBytes(c.kdf.marshalOptions())
	w.WriteUint32(uint32(len(c.publicKeys)))
	for i := range c.publicKeys {
		w.WriteBytes(c.publicKeys[i].blob)
	}
	w.WriteBytes(raw)
	w.WriteRaw(tag)
	return w.Bytes()
}

// parsePublicBlob extracts the algorithm tag from a wire-encoded public key
// blob and keeps the blob itself opaque.
func parsePublicBlob(blob []byte) (PublicKey, error) {
	r := sshwire.NewReader(blob)
	algorithm, err := r.String()
	if err != nil || algorithm == "" {
		return PublicKey{}, fmt.Errorf("%w: unreadable public key blob", ErrBadFormat)
	}
	if _, ok := keyDataDecoders[algorithm]; !ok {
		return PublicKey{}, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, algorithm)
	}
	return PublicKey{algorithm: algorithm, blob: blob}, nil
}
