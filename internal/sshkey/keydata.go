// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/toeirei/keyforge/internal/sshwire"
)

// Algorithm names as they appear on the wire.
const (
	AlgoEd25519  = "ssh-ed25519"
	AlgoRSA      = "ssh-rsa"
	AlgoECDSA256 = "ecdsa-sha2-nistp256"
	AlgoECDSA384 = "ecdsa-sha2-nistp384"
	AlgoECDSA521 = "ecdsa-sha2-nistp521"
)

// KeyData is one key's algorithm-specific material. Implementations know how
// to serialize their private record body and their public key blob; the
// container treats them as opaque beyond the algorithm tag.
type KeyData interface {
	// Algorithm returns the wire algorithm tag.
	Algorithm() string
	// PublicBlob returns the wire-encoded public key blob, the same bytes
	// the container's public section carries.
	PublicBlob() []byte
	// marshalPrivate appends the private record body (everything between
	// the algorithm tag and the comment).
	marshalPrivate(w *sshwire.Writer)
}

// keyDataDecoders dispatches private record bodies by algorithm tag.
var keyDataDecoders = map[string]func(*sshwire.Reader) (KeyData, error){
	AlgoEd25519:  decodeEd25519KeyData,
	AlgoRSA:      decodeRSAKeyData,
	AlgoECDSA256: decodeECDSAKeyData(AlgoECDSA256, "nistp256", 65),
	AlgoECDSA384: decodeECDSAKeyData(AlgoECDSA384, "nistp384", 97),
	AlgoECDSA521: decodeECDSAKeyData(AlgoECDSA521, "nistp521", 133),
}

// decodeKeyData parses one private record body for the given algorithm.
func decodeKeyData(algorithm string, r *sshwire.Reader) (KeyData, error) {
	dec, ok := keyDataDecoders[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, algorithm)
	}
	return dec(r)
}

// Ed25519KeyData is an ed25519 key pair. Priv is the 64-byte expanded form
// (seed followed by public key), as stored on the wire.
type Ed25519KeyData struct {
	Priv ed25519.PrivateKey
}

func decodeEd25519KeyData(r *sshwire.Reader) (KeyData, error) {
	pub, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	priv, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key is %d bytes", ErrBadFormat, len(pub))
	}
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key is %d bytes", ErrBadFormat, len(priv))
	}
	// The record duplicates the public half; the copies must agree.
	if !bytes.Equal(pub, priv[32:]) {
		return nil, fmt.Errorf("%w: ed25519 public half does not match private key", ErrBadFormat)
	}
	return &Ed25519KeyData{Priv: ed25519.PrivateKey(priv)}, nil
}

// Algorithm implements KeyData.
func (k *Ed25519KeyData) Algorithm() string { return AlgoEd25519 }

// PublicKey returns the public half.
func (k *Ed25519KeyData) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(k.Priv[32:])
}

// PublicBlob implements KeyData.
func (k *Ed25519KeyData) PublicBlob() []byte {
	var w sshwire.Writer
	w.WriteString(AlgoEd25519)
	w.WriteBytes(k.Priv[32:])
	return w.Bytes()
}

func (k *Ed25519KeyData) marshalPrivate(w *sshwire.Writer) {
	w.WriteBytes(k.Priv[32:])
	w.WriteBytes(k.Priv)
}

// RSAKeyData is an RSA private key.
type RSAKeyData struct {
	Priv *rsa.PrivateKey
}

func decodeRSAKeyData(r *sshwire.Reader) (KeyData, error) {
	n, err := r.MPInt()
	if err != nil {
		return nil, err
	}
	e, err := r.MPInt()
	if err != nil {
		return nil, err
	}
	d, err := r.MPInt()
	if err != nil {
		return nil, err
	}
	// iqmp is recomputed from p and q; the wire value is redundant.
	if _, err := r.MPInt(); err != nil {
		return nil, err
	}
	p, err := r.MPInt()
	if err != nil {
		return nil, err
	}
	q, err := r.MPInt()
	if err != nil {
		return nil, err
	}
	if !e.IsInt64() || e.Int64() <= 0 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("%w: rsa exponent out of range", ErrBadFormat)
	}
	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: int(e.Int64())},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid rsa key: %v", ErrBadFormat, err)
	}
	key.Precompute()
	return &RSAKeyData{Priv: key}, nil
}

// Algorithm implements KeyData.
func (k *RSAKeyData) Algorithm() string { return AlgoRSA }

// PublicBlob implements KeyData.
func (k *RSAKeyData) PublicBlob() []byte {
	var w sshwire.Writer
	w.WriteString(AlgoRSA)
	w.WriteMPInt(big.NewInt(int64(k.Priv.E)))
	w.WriteMPInt(k.Priv.N)
	return w.Bytes()
}

func (k *RSAKeyData) marshalPrivate(w *sshwire.Writer) {
	w.WriteMPInt(k.Priv.N)
	w.WriteMPInt(big.NewInt(int64(k.Priv.E)))
	w.WriteMPInt(k.Priv.D)
	w.WriteMPInt(k.Priv.Precomputed.Qinv)
	w.WriteMPInt(k.Priv.Primes[0])
	w.WriteMPInt(k.Priv.Primes[1])
}

// ECDSAKeyData is an ECDSA private key over one of the NIST curves. The
// public point is kept in its wire form (uncompressed SEC1 encoding).
type ECDSAKeyData struct {
	algorithm string
	Curve     string
	Point     []byte
	D         *big.Int
}

func decodeECDSAKeyData(algorithm, curve string, pointLen int) func(*sshwire.Reader) (KeyData, error) {
	return func(r *sshwire.Reader) (KeyData, error) {
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		if name != curve {
			return nil, fmt.Errorf("%w: curve %q does not match algorithm %s", ErrBadFormat, name, algorithm)
		}
		point, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		if len(point) != pointLen || point[0] != 4 {
			return nil, fmt.Errorf("%w: bad %s point encoding", ErrBadFormat, curve)
		}
		d, err := r.MPInt()
		if err != nil {
			return nil, err
		}
		return &ECDSAKeyData{algorithm: algorithm, Curve: curve, Point: point, D: d}, nil
	}
}

// Algorithm implements KeyData.
func (k *ECDSAKeyData) Algorithm() string { return k.algorithm }

// PublicBlob implements KeyData.
func (k *ECDSAKeyData) PublicBlob() []byte {
	var w sshwire.Writer
	w.WriteString(k.algorithm)
	w.WriteString(k.Curve)
	w.WriteBytes(k.Point)
	return w.Bytes()
}

func (k *ECDSAKeyData) marshalPrivate(w *sshwire.Writer) {
	w.WriteString(k.Curve)
	w.WriteBytes(k.Point)
	w.WriteMPInt(k.D)
}
