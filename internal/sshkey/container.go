// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/toeirei/keyforge/internal/logging"
	"github.com/toeirei/keyforge/internal/sshwire"
)

// PublicKey is one public key entry from the container's public section: an
// algorithm tag plus the opaque wire-encoded blob. Entries are immutable
// once parsed.
type PublicKey struct {
	algorithm string
	blob      []byte
}

// Algorithm returns the wire algorithm tag, e.g. "ssh-ed25519".
func (p PublicKey) Algorithm() string { return p.algorithm }

// Blob returns a copy of the wire-encoded public key blob.
func (p PublicKey) Blob() []byte {
	out := make([]byte, len(p.blob))
	copy(out, p.blob)
	return out
}

// Fingerprint returns the SHA256 fingerprint in OpenSSH's usual
// "SHA256:..." form.
func (p PublicKey) Fingerprint() string {
	sum := sha256.Sum256(p.blob)
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:])
}

// Key is one decrypted private key record: the algorithm-specific material
// and its comment.
type Key struct {
	Data    KeyData
	Comment string
}

// Container is the parsed representation of one OpenSSH private key file.
// It is a value type: Decrypt and Encrypt return new Containers and never
// mutate the receiver. The private section is either still raw (as read
// from the file) or decoded into key records, never both.
type Container struct {
	cipher     Cipher
	kdf        Kdf
	publicKeys []PublicKey

	raw []byte // private section as stored; nil once decoded
	tag []byte // detached AEAD tag when cipher.Authenticated()

	keys     []Key  // decoded records; nil while raw is set
	checkint uint32 // preserved from decode so re-encoding is byte exact
}

// Decode parses an armored OpenSSH private key file. The private section
// stays opaque until Decrypt is called, but the cipher, KDF, and public
// keys are available immediately.
func Decode(armored []byte) (*Container, error) {
	data, err := unarmor(armored)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Encode renders the container back to armored text. Encoding the same
// container twice yields identical bytes; encryption only ever happens in
// Encrypt, never implicitly here.
func (c *Container) Encode() []byte {
	return armor(c.Marshal())
}

// NewContainer builds an unencrypted container from one or more key
// records. The checkint pair is drawn from rand; pass crypto/rand.Reader
// outside tests.
func NewContainer(rand io.Reader, keys ...Key) (*Container, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrBadFormat)
	}
	checkint, err := randomUint32(rand)
	if err != nil {
		return nil, err
	}
	publicKeys := make([]PublicKey, len(keys))
	for i := range keys {
		publicKeys[i] = PublicKey{algorithm: keys[i].Data.Algorithm(), blob: keys[i].Data.PublicBlob()}
	}
	return &Container{
		cipher:     CipherNone,
		kdf:        Kdf{Alg: KdfNone},
		publicKeys: publicKeys,
		keys:       keys,
		checkint:   checkint,
	}, nil
}

// NewEd25519Container builds an unencrypted single-key container from an
// ed25519 private key.
func NewEd25519Container(rand io.Reader, priv ed25519.PrivateKey, comment string) (*Container, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key is %d bytes", ErrBadFormat, len(priv))
	}
	return NewContainer(rand, Key{Data: &Ed25519KeyData{Priv: priv}, Comment: comment})
}

// Cipher returns the cipher identifier from the container header.
func (c *Container) Cipher() Cipher { return c.cipher }

// Kdf returns the KDF descriptor from the container header. The salt is
// copied.
func (c *Container) Kdf() Kdf {
	k := c.kdf
	if k.Salt != nil {
		k.Salt = append([]byte(nil), k.Salt...)
	}
	return k
}

// IsEncrypted reports whether reading the key material requires a
// passphrase.
func (c *Container) IsEncrypted() bool { return c.cipher != CipherNone }

// PublicKeys returns the container's public key entries. They are readable
// whether or not the private section has been decrypted.
func (c *Container) PublicKeys() []PublicKey {
	return append([]PublicKey(nil), c.publicKeys...)
}

// Algorithm returns the algorithm tag of the first key.
func (c *Container) Algorithm() string {
	return c.publicKeys[0].algorithm
}

// Comment returns the first key's comment, or "" while the private section
// is still encrypted (the format keeps comments inside it).
func (c *Container) Comment() string {
	if c.keys == nil {
		return ""
	}
	return c.keys[0].Comment
}

// Keys returns the decoded key records. It fails with ErrEncrypted while
// the private section is still opaque.
func (c *Container) Keys() ([]Key, error) {
	if c.keys == nil {
		return nil, ErrEncrypted
	}
	return append([]Key(nil), c.keys...), nil
}

// AuthorizedKey renders the first public key as an authorized_keys line,
// including the comment when one is available.
func (c *Container) AuthorizedKey() (string, error) {
	pub, err := ssh.ParsePublicKey(c.publicKeys[0].blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub)))
	if comment := c.Comment(); comment != "" {
		line = line + " " + comment
	}
	return line, nil
}

// Decrypt decodes the private section, deriving the cipher key from
// password when the container is encrypted. The result is a new plaintext
// container (cipher and KDF none); the receiver is unchanged. All
// wrong-password signals surface as ErrIncorrectPassword.
func (c *Container) Decrypt(password []byte) (*Container, error) {
	if c.raw == nil {
		return nil, ErrNotEncrypted
	}

	plaintext := c.raw
	if c.cipher != CipherNone {
		derived, err := c.kdf.Derive(password, c.cipher.KeySize()+c.cipher.IVSize())
		if err != nil {
			return nil, err
		}
		key, iv := derived[:c.cipher.KeySize()], derived[c.cipher.KeySize():]
		plaintext, err = c.cipher.Decrypt(key, iv, c.raw, c.tag)
		if err != nil {
			if errors.Is(err, errCipherAuth) {
				logging.Debugf("sshkey: decrypt rejected: %v", err)
				return nil, ErrIncorrectPassword
			}
			return nil, err
		}
	}

	checkint, keys, err := parsePrivateSection(plaintext, len(c.publicKeys))
	if err != nil {
		if c.cipher != CipherNone {
			// A wrong-looking section after decryption means a wrong key or
			// corrupted data; which check tripped stays internal.
			logging.Debugf("sshkey: decrypt rejected: %v", err)
			return nil, ErrIncorrectPassword
		}
		return nil, err
	}
	for i := range keys {
		if keys[i].Data.Algorithm() != c.publicKeys[i].algorithm {
			return nil, fmt.Errorf("%w: key %d is %s but public section says %s",
				ErrBadFormat, i, keys[i].Data.Algorithm(), c.publicKeys[i].algorithm)
		}
	}

	return &Container{
		cipher:     CipherNone,
		kdf:        Kdf{Alg: KdfNone},
		publicKeys: c.publicKeys,
		keys:       keys,
		checkint:   checkint,
	}, nil
}

// EncryptOption adjusts how Encrypt protects the container.
type EncryptOption func(*encryptConfig)

type encryptConfig struct {
	cipher   Cipher
	rounds   uint32
	saltSize int
}

// WithCipher selects the cipher; the default is AES-256-CTR.
func WithCipher(c Cipher) EncryptOption {
	return func(cfg *encryptConfig) { cfg.cipher = c }
}

// WithRounds sets the bcrypt round count; the default is 16, matching
// ssh-keygen.
func WithRounds(rounds uint32) EncryptOption {
	return func(cfg *encryptConfig) { cfg.rounds = rounds }
}

// WithSaltSize sets the bcrypt salt length in bytes; the default is 16.
func WithSaltSize(n int) EncryptOption {
	return func(cfg *encryptConfig) { cfg.saltSize = n }
}

// Encrypt builds a freshly protected container from a plaintext one. Salt,
// IV, and the checkint pair come from rand, which is always explicit; pass
// crypto/rand.Reader outside tests. The receiver is unchanged.
func (c *Container) Encrypt(rand io.Reader, password []byte, opts ...EncryptOption) (*Container, error) {
	if c.keys == nil {
		return nil, ErrEncrypted
	}
	cfg := encryptConfig{cipher: CipherAES256CTR, rounds: 16, saltSize: 16}
	for _, opt := range opts {
		opt(&cfg)
	}

	checkint, err := randomUint32(rand)
	if err != nil {
		return nil, err
	}
	section := buildPrivateSection(checkint, c.keys, cfg.cipher.BlockSize())

	if cfg.cipher == CipherNone {
		if len(password) != 0 {
			return nil, fmt.Errorf("%w: passphrase given but cipher is none", ErrInvalidKdfParams)
		}
		return &Container{
			cipher:     CipherNone,
			kdf:        Kdf{Alg: KdfNone},
			publicKeys: c.publicKeys,
			raw:        section,
		}, nil
	}

	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", ErrInvalidKdfParams)
	}
	if cfg.rounds == 0 {
		return nil, fmt.Errorf("%w: zero bcrypt rounds", ErrInvalidKdfParams)
	}
	if cfg.saltSize <= 0 {
		return nil, fmt.Errorf("%w: salt size %d", ErrInvalidKdfParams, cfg.saltSize)
	}
	salt := make([]byte, cfg.saltSize)
	if _, err := io.ReadFull(rand, salt); err != nil {
		return nil, fmt.Errorf("sshkey: reading salt: %w", err)
	}
	kdf := Kdf{Alg: KdfBcrypt, Salt: salt, Rounds: cfg.rounds}
	derived, err := kdf.Derive(password, cfg.cipher.KeySize()+cfg.cipher.IVSize())
	if err != nil {
		return nil, err
	}
	key, iv := derived[:cfg.cipher.KeySize()], derived[cfg.cipher.KeySize():]
	ciphertext, tag, err := cfg.cipher.Encrypt(key, iv, section)
	if err != nil {
		return nil, err
	}

	return &Container{
		cipher:     cfg.cipher,
		kdf:        kdf,
		publicKeys: c.publicKeys,
		raw:        ciphertext,
		tag:        tag,
	}, nil
}

// Equal reports semantic equality: same cipher, KDF, public keys, and key
// material. The checkint pair is ignored, so a decrypt of an encrypt of a
// container compares equal to the original.
func (c *Container) Equal(other *Container) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.cipher != other.cipher ||
		c.kdf.Alg != other.kdf.Alg ||
		c.kdf.Rounds != other.kdf.Rounds ||
		!bytes.Equal(c.kdf.Salt, other.kdf.Salt) {
		return false
	}
	if len(c.publicKeys) != len(other.publicKeys) {
		return false
	}
	for i := range c.publicKeys {
		if !bytes.Equal(c.publicKeys[i].blob, other.publicKeys[i].blob) {
			return false
		}
	}
	if (c.keys == nil) != (other.keys == nil) {
		return false
	}
	if c.keys == nil {
		return bytes.Equal(c.raw, other.raw) && bytes.Equal(c.tag, other.tag)
	}
	if len(c.keys) != len(other.keys) {
		return false
	}
	for i := range c.keys {
		if c.keys[i].Comment != other.keys[i].Comment ||
			c.keys[i].Data.Algorithm() != other.keys[i].Data.Algorithm() {
			return false
		}
		var a, b sshwire.Writer
		c.keys[i].Data.marshalPrivate(&a)
		other.keys[i].Data.marshalPrivate(&b)
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			return false
		}
	}
	return true
}

func randomUint32(rand io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return 0, fmt.Errorf("sshkey: reading entropy: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
