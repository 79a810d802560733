// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseAuthorizedKey splits an authorized_keys or .pub line into a PublicKey
// and its comment. Leading options (e.g. from="...",command="...") are
// skipped, so lines copied straight out of an authorized_keys file work.
func ParseAuthorizedKey(line string) (PublicKey, string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return PublicKey{}, "", fmt.Errorf("%w: empty line", ErrBadFormat)
	}

	keyStart := -1
	for i, field := range fields {
		if strings.HasPrefix(field, "ssh-") || strings.HasPrefix(field, "ecdsa-") {
			keyStart = i
			break
		}
	}
	if keyStart == -1 {
		return PublicKey{}, "", fmt.Errorf("%w: no key type found in line", ErrBadFormat)
	}
	if len(fields) < keyStart+2 {
		return PublicKey{}, "", fmt.Errorf("%w: missing key data after algorithm", ErrBadFormat)
	}

	algorithm := fields[keyStart]
	blob, err := base64.StdEncoding.DecodeString(fields[keyStart+1])
	if err != nil {
		return PublicKey{}, "", fmt.Errorf("%w: key data: %v", ErrBadFormat, err)
	}
	pub, err := parsePublicBlob(blob)
	if err != nil {
		return PublicKey{}, "", err
	}
	if pub.algorithm != algorithm {
		return PublicKey{}, "", fmt.Errorf("%w: blob is %s but line says %s",
			ErrBadFormat, pub.algorithm, algorithm)
	}

	var comment string
	if len(fields) > keyStart+2 {
		comment = strings.Join(fields[keyStart+2:], " ")
	}
	return pub, comment, nil
}
