// Package account defines the opaque fixed-width identity used as a ledger key.
package account

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Length is the identity width in bytes.
const Length = 20

// Account is an opaque 20-byte identity. The zero value is the reserved
// "no account" sentinel, also used as the creation source and burn target.
type Account [Length]byte

// Zero is the reserved sentinel account.
var Zero Account

var ErrInvalidHex = errors.New("account: invalid hex encoding")

// FromHex parses an account from a hex string, with or without a 0x prefix.
func FromHex(s string) (Account, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Length*2 {
		return Zero, fmt.Errorf("%w: want %d hex chars, got %d", ErrInvalidHex, Length*2, len(s))
	}
	var a Account
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return Zero, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return a, nil
}

// MustFromHex parses an account from hex and panics on malformed input.
// Intended for fixtures and hard-coded identities.
func MustFromHex(s string) Account {
	a, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromBytes builds an account from raw bytes, right-aligned and
// zero-padded or truncated to Length.
func FromBytes(b []byte) Account {
	var a Account
	if len(b) > Length {
		b = b[len(b)-Length:]
	}
	copy(a[Length-len(b):], b)
	return a
}

// IsZero reports whether a is the sentinel account.
func (a Account) IsZero() bool {
	return a == Zero
}

// String returns the 0x-prefixed lowercase hex encoding.
func (a Account) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
