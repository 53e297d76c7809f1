package types

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestBytesToHashPadding(t *testing.T) {
	h := BytesToHash([]byte{0x01, 0x02})
	if h[30] != 0x01 || h[31] != 0x02 {
		t.Fatalf("short input not left-padded: %s", h)
	}
	long := make([]byte, 40)
	long[8] = 0xaa
	if got := BytesToHash(long); got[0] != 0xaa {
		t.Fatalf("long input not truncated from the left: %s", got)
	}
}

func TestHexToHashRoundTrip(t *testing.T) {
	s := "0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"
	h := HexToHash(s)
	if h.Hex() != s {
		t.Fatalf("hex round trip = %s, want %s", h.Hex(), s)
	}
	if h.IsZero() {
		t.Fatal("non-zero hash reports zero")
	}
	if (Hash{}).IsZero() == false {
		t.Fatal("zero hash does not report zero")
	}
}

func TestAddressRoundTrip(t *testing.T) {
	s := "0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b"
	a := HexToAddress(s)
	if a.Hex() != s {
		t.Fatalf("address round trip = %s, want %s", a.Hex(), s)
	}
	if len(a.Bytes()) != AddressLength {
		t.Fatalf("address length = %d", len(a.Bytes()))
	}
}

func TestNewAccountDefaults(t *testing.T) {
	acc := NewAccount()
	if acc.Nonce != 0 {
		t.Errorf("nonce = %d", acc.Nonce)
	}
	if !acc.Balance.Eq(new(uint256.Int)) {
		t.Errorf("balance = %s", acc.Balance)
	}
	if acc.HasStorage() {
		t.Error("fresh account reports storage")
	}
	if BytesToHash(acc.CodeHash) != EmptyCodeHash {
		t.Errorf("code hash = %x", acc.CodeHash)
	}
}
