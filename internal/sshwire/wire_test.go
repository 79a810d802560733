// Copyright (c) 2025 ToeiRei
// Keyforge - OpenSSH private key tooling
// This source code is licensed under the MIT license found in the LICENSE file.

package sshwire

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func TestReaderUint32(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x01, 0x02})
	v, err := r.Uint32()
	if err != nil {
		t.Fatalf("Uint32 failed: %v", err)
	}
	if v != 258 {
		t.Errorf("got %d, want 258", v)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected empty reader, %d bytes left", r.Remaining())
	}
}

func TestReaderUint32Truncated(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x01})
	if _, err := r.Uint32(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestReaderBytes(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x03, 'a', 'b', 'c', 'x'})
	b, err := r.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if string(b) != "abc" {
		t.Errorf("got %q, want %q", b, "abc")
	}
	if r.Remaining() != 1 {
		t.Errorf("expected 1 byte remaining, got %d", r.Remaining())
	}
}

func TestReaderBytesTruncatedBody(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x09, 'a', 'b'})
	if _, err := r.Bytes(); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestReaderBytesDoesNotAliasInput(t *testing.T) {
	src := []byte{0x00, 0x00, 0x00, 0x02, 'h', 'i'}
	r := NewReader(src)
	b, err := r.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	src[4] = 'X'
	if string(b) != "hi" {
		t.Errorf("returned slice aliases input: %q", b)
	}
}

func TestMPIntRoundTrip(t *testing.T) {
	cases := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(127),
		big.NewInt(128), // needs a leading zero octet
		big.NewInt(65537),
		new(big.Int).Lsh(big.NewInt(1), 255),
	}
	for _, n := range cases {
		var w Writer
		w.WriteMPInt(n)
		r := NewReader(w.Bytes())
		got, err := r.MPInt()
		if err != nil {
			t.Fatalf("MPInt(%v) failed: %v", n, err)
		}
		if got.Cmp(n) != 0 {
			t.Errorf("round trip of %v yielded %v", n, got)
		}
		if r.Remaining() != 0 {
			t.Errorf("mpint %v left %d bytes", n, r.Remaining())
		}
	}
}

func TestMPIntCanonicalLeadingZero(t *testing.T) {
	// 0x80 must encode as 00 80, per RFC 4251.
	var w Writer
	w.WriteMPInt(big.NewInt(0x80))
	want := []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x80}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got % x, want % x", w.Bytes(), want)
	}
}

func TestMPIntRejectsNegative(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x01, 0x80})
	if _, err := r.MPInt(); !errors.Is(err, ErrNegativeMPInt) {
		t.Errorf("expected ErrNegativeMPInt, got %v", err)
	}
}

func TestWriterComposite(t *testing.T) {
	var w Writer
	w.WriteString("none")
	w.WriteUint32(1)
	w.WriteBytes([]byte{0xde, 0xad})
	w.WriteRaw([]byte{0xff})

	r := NewReader(w.Bytes())
	s, err := r.String()
	if err != nil || s != "none" {
		t.Fatalf("String: %q, %v", s, err)
	}
	n, err := r.Uint32()
	if err != nil || n != 1 {
		t.Fatalf("Uint32: %d, %v", n, err)
	}
	b, err := r.Bytes()
	if err != nil || !bytes.Equal(b, []byte{0xde, 0xad}) {
		t.Fatalf("Bytes: % x, %v", b, err)
	}
	rest := r.Rest()
	if !bytes.Equal(rest, []byte{0xff}) {
		t.Fatalf("Rest: % x", rest)
	}
	if r.Remaining() != 0 {
		t.Errorf("reader not drained")
	}
}

func TestReaderRaw(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	b, err := r.Raw(3)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if !bytes.Equal(b, []byte{1, 2, 3}) {
		t.Errorf("got % x", b)
	}
	if _, err := r.Raw(2); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}
