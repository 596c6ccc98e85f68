package account

import (
	"errors"
	"testing"
)

func TestFromHexRoundTrip(t *testing.T) {
	const in = "0x00112233445566778899aabbccddeeff00112233"

	a, err := FromHex(in)
	if err != nil {
		t.Fatalf("FromHex failed: %v", err)
	}
	if got := a.String(); got != in {
		t.Errorf("String = %q, want %q", got, in)
	}

	// No prefix is also accepted.
	b, err := FromHex(in[2:])
	if err != nil {
		t.Fatalf("FromHex without prefix failed: %v", err)
	}
	if a != b {
		t.Error("prefixed and unprefixed parses differ")
	}
}

func TestFromHexRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0x1234", "0xzz112233445566778899aabbccddeeff00112233"} {
		if _, err := FromHex(s); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("FromHex(%q) error = %v, want ErrInvalidHex", s, err)
		}
	}
}

func TestZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Zero.IsZero() = false")
	}
	a := MustFromHex("0x0000000000000000000000000000000000000001")
	if a.IsZero() {
		t.Error("non-zero account reported as zero")
	}
}

func TestFromBytes(t *testing.T) {
	a := FromBytes([]byte{0x01})
	want := MustFromHex("0x0000000000000000000000000000000000000001")
	if a != want {
		t.Errorf("FromBytes = %s, want %s", a, want)
	}

	// Longer input keeps the low-order bytes.
	long := make([]byte, Length+2)
	long[0] = 0xff
	long[len(long)-1] = 0x07
	if got := FromBytes(long); got[Length-1] != 0x07 || got[0] != 0x00 {
		t.Errorf("FromBytes truncation wrong: %s", got)
	}
}
