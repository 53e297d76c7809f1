package rlp

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture: %v", err)
	}
	return b
}

func TestDecodeUint64(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"80", 0},
		{"01", 1},
		{"7f", 127},
		{"8180", 128},
		{"820400", 1024},
		{"88ffffffffffffffff", 0xffffffffffffffff},
	}
	for _, tt := range tests {
		var got uint64
		if err := DecodeBytes(fromHex(t, tt.in), &got); err != nil {
			t.Fatalf("decode(%s): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("decode(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecodeUint64Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"820080", ErrCanonInt},           // leading zero
		{"89ffffffffffffffffff", ErrUint64Range}, // 9 bytes
	}
	for _, tt := range tests {
		var got uint64
		if err := DecodeBytes(fromHex(t, tt.in), &got); !errors.Is(err, tt.want) {
			t.Errorf("decode(%s) err = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestDecodeBytesValue(t *testing.T) {
	var got []byte
	if err := DecodeBytes(fromHex(t, "83646f67"), &got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("dog")) {
		t.Fatalf("decode = %q, want dog", got)
	}

	// Non-canonical single byte string must be rejected.
	if err := DecodeBytes(fromHex(t, "8101"), &got); !errors.Is(err, ErrCanonSize) {
		t.Fatalf("decode(8101) err = %v, want ErrCanonSize", err)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	var got uint64
	if err := DecodeBytes(fromHex(t, "0100"), &got); !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("err = %v, want ErrTrailingBytes", err)
	}
}

func TestDecodeBigInt(t *testing.T) {
	var got big.Int
	if err := DecodeBytes(fromHex(t, "83100000"), &got); err != nil {
		t.Fatal(err)
	}
	if got.Cmp(big.NewInt(1<<20)) != 0 {
		t.Fatalf("decode = %s, want %d", got.String(), 1<<20)
	}
}

func TestDecodeUint256(t *testing.T) {
	var got uint256.Int
	if err := DecodeBytes(fromHex(t, "880de0b6b3a7640000"), &got); err != nil {
		t.Fatal(err)
	}
	if got.Uint64() != 1_000_000_000_000_000_000 {
		t.Fatalf("decode = %s", got.String())
	}

	ptr := new(uint256.Int)
	if err := DecodeBytes(fromHex(t, "2a"), ptr); err != nil {
		t.Fatal(err)
	}
	if ptr.Uint64() != 42 {
		t.Fatalf("decode via pointer = %s, want 42", ptr)
	}

	// 33-byte integer overflows uint256.
	over := "a1" + repeatHex("ff", 33)
	if err := DecodeBytes(fromHex(t, over), &got); !errors.Is(err, ErrUint256Range) {
		t.Fatalf("overflow err = %v, want ErrUint256Range", err)
	}
}

func TestDecodeList(t *testing.T) {
	var got []uint64
	if err := DecodeBytes(fromHex(t, "c3010203"), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("decode = %v, want [1 2 3]", got)
	}
}

func TestDecodeStructRoundTrip(t *testing.T) {
	type record struct {
		A uint64
		B []byte
		C *uint256.Int
	}
	in := record{A: 9, B: []byte("xyz"), C: uint256.NewInt(77)}
	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out record
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.A != in.A || !bytes.Equal(out.B, in.B) || !out.C.Eq(in.C) {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestStreamListScoping(t *testing.T) {
	// [[1, 2], "x"]
	enc := fromHex(t, "c4c2010278")
	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	a, err := s.Uint64()
	if err != nil || a != 1 {
		t.Fatalf("first = (%d, %v)", a, err)
	}
	b, err := s.Uint64()
	if err != nil || b != 2 {
		t.Fatalf("second = (%d, %v)", b, err)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatalf("inner ListEnd: %v", err)
	}
	v, err := s.Bytes()
	if err != nil || string(v) != "x" {
		t.Fatalf("tail = (%q, %v)", v, err)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatalf("outer ListEnd: %v", err)
	}
}

func TestStreamListEndEarly(t *testing.T) {
	s := NewStreamFromBytes(fromHex(t, "c3010203"))
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Uint64(); err != nil {
		t.Fatal(err)
	}
	if err := s.ListEnd(); !errors.Is(err, ErrEOL) {
		t.Fatalf("early ListEnd err = %v, want ErrEOL", err)
	}
}

func TestDecodeExpectedList(t *testing.T) {
	var got []uint64
	if err := DecodeBytes(fromHex(t, "83646f67"), &got); !errors.Is(err, ErrExpectedList) {
		t.Fatalf("err = %v, want ErrExpectedList", err)
	}
}
