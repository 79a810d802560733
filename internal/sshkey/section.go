// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"fmt"

	"github.com/toeirei/keyforge/internal/sshwire"
)

// maxPadding bounds the incrementing pad sequence. No supported cipher has a
// block size above 16, so a longer pad is malformed.
const maxPadding = 16

// buildPrivateSection serializes the plaintext private section: the checkint
// written twice, each key's record (algorithm, key material, comment), and
// an incrementing pad to a multiple of blockSize.
func buildPrivateSection(checkint uint32, keys []Key, blockSize int) []byte {
	var w sshwire.Writer
	w.WriteUint32(checkint)
	w.WriteUint32(checkint)
	for i := range keys {
		w.WriteString(keys[i].Data.Algorithm())
		keys[i].Data.marshalPrivate(&w)
		w.WriteString(keys[i].Comment)
	}
	for i := 1; w.Len()%blockSize != 0; i++ {
		w.WriteRaw([]byte{byte(i)})
	}
	return w.Bytes()
}

// parsePrivateSection decodes and validates a plaintext private section for
// exactly nkeys keys. The returned checkint is preserved so a later encode
// can reproduce the section byte for byte.
func parsePrivateSection(data []byte, nkeys int) (uint32, []Key, error) {
	r := sshwire.NewReader(data)
	check1, err := r.Uint32()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	check2, err := r.Uint32()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if check1 != check2 {
		return 0, nil, ErrChecksumMismatch
	}

	keys := make([]Key, 0, nkeys)
	for i := 0; i < nkeys; i++ {
		algorithm, err := r.String()
		if err != nil {
			return 0, nil, fmt.Errorf("%w: key %d: %v", ErrBadFormat, i, err)
		}
		data, err := decodeKeyData(algorithm, r)
		if err != nil {
			return 0, nil, err
		}
		comment, err := r.String()
		if err != nil {
			return 0, nil, fmt.Errorf("%w: key %d comment: %v", ErrBadFormat, i, err)
		}
		keys = append(keys, Key{Data: data, Comment: comment})
	}

	pad := r.Rest()
	if len(pad) >= maxPadding {
		return 0, nil, ErrBadPadding
	}
	for i, b := range pad {
		if b != byte(i+1) {
			return 0, nil, ErrBadPadding
		}
	}
	return check1, keys, nil
}
