// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshwire implements the primitive wire encoding used throughout the
// OpenSSH private key container format: big-endian 32-bit unsigned integers,
// length-prefixed byte strings, and multiple-precision integers (RFC 4251
// section 5). It is the lowest layer of the codec; everything above it is
// expressed in terms of these primitives.
package sshwire

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// ErrTruncated is returned when a field's declared length runs past the end
// of the buffer being decoded.
var ErrTruncated = errors.New("sshwire: truncated field")

// ErrNegativeMPInt is returned when a multiple-precision integer has its sign
// bit set. Key material is always non-negative.
var ErrNegativeMPInt = errors.New("sshwire: negative mpint")

// Reader decodes wire primitives from a byte buffer, consuming it
// front-to-back. Decoded byte fields are copies; the Reader never aliases
// its input into returned values.
type Reader struct {
	buf []byte
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many undecoded bytes are left.
func (r *Reader) Remaining() int {
	return len(r.buf)
}

// Uint32 decodes a big-endian 32-bit unsigned integer.
func (r *Reader) Uint32() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return v, nil
}

// Bytes decodes a length-prefixed byte string and returns a copy of its
// contents.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if uint64(len(r.buf)) < uint64(n) {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[:n])
	r.buf = r.buf[n:]
	return out, nil
}

// String decodes a length-prefixed byte string as a string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// MPInt decodes a length-prefixed multiple-precision integer. Negative
// values are rejected.
func (r *Reader) MPInt() (*big.Int, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0]&0x80 != 0 {
		return nil, ErrNegativeMPInt
	}
	return new(big.Int).SetBytes(b), nil
}

// Raw consumes exactly n bytes without a length prefix and returns a copy.
func (r *Reader) Raw(n int) ([]byte, error) {
	if n < 0 || len(r.buf) < n {
		return nil, ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[:n])
	r.buf = r.buf[n:]
	return out, nil
}

// Rest consumes and returns a copy of all remaining bytes.
func (r *Reader) Rest() []byte {
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	r.buf = nil
	return out
}

// Writer builds a wire-encoded byte sequence by appending primitives.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// WriteUint32 appends a big-endian 32-bit unsigned integer.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteBytes appends a length-prefixed byte string.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString appends a length-prefixed string.
func (w *Writer) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteMPInt appends n in SSH mpint form: minimal big-endian bytes with a
// leading zero octet when the top bit would otherwise read as a sign bit.
// Zero encodes as an empty string.
func (w *Writer) WriteMPInt(n *big.Int) {
	b := n.Bytes()
	if len(b) > 0 && b[0]&0x80 != 0 {
		w.WriteUint32(uint32(len(b) + 1))
		w.buf = append(w.buf, 0)
		w.buf = append(w.buf, b...)
		return
	}
	w.WriteBytes(b)
}

// WriteRaw appends b verbatim, without a length prefix.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Bytes returns the accumulated encoding. The returned slice is owned by the
// Writer until the next Write call.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}
