package types

import (
	"errors"
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-governance/common/util"
)

// AddressLength is the expected length of the address.
const AddressLength = 20

// ErrWrongAddressLength is returned when the length of the address is not correct.
var ErrWrongAddressLength = errors.New("wrong address length")

// Address identifies an account holding voting power.
type Address [AddressLength]byte

// StringToAddress parses a 0x prefixed hex address.
func StringToAddress(src string) (Address, error) {
	var addr Address
	b, err := util.Decode(src)
	if err != nil {
		return addr, fmt.Errorf("decode address %q: %w", src, err)
	}
	if len(b) != AddressLength {
		return addr, fmt.Errorf("expected %d bytes, got %d: %w", AddressLength, len(b), ErrWrongAddressLength)
	}
	copy(addr[:], b)
	return addr, nil
}

// BytesToAddress returns Address with value b. If b is larger than the
// address it is cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns a slice backed by the address.
func (a Address) Bytes() []byte { return a[:] }

// IsEmpty checks if address is empty.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return util.Encode(a[:])
}

// ShortString returns the first 5 bytes of the address.
func (a Address) ShortString() string {
	return util.Encode(a[:5])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(buf []byte) error {
	parsed, err := StringToAddress(string(buf))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// EncodeScale implements scale codec interface.
func (a *Address) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, a[:])
}

// DecodeScale implements scale codec interface.
func (a *Address) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, a[:])
}
