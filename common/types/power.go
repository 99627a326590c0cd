package types

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
)

// Power parses a decimal string into a voting power value.
func Power(decimal string) (uint256.Int, error) {
	var v uint256.Int
	if err := v.SetFromDecimal(decimal); err != nil {
		return v, fmt.Errorf("parse voting power %q: %w", decimal, err)
	}
	return v, nil
}

// MustPower is Power that panics on invalid input. Intended for tests and constants.
func MustPower(decimal string) uint256.Int {
	v, err := Power(decimal)
	if err != nil {
		panic(err)
	}
	return v
}

// encodeUint256 writes the value as 32 big-endian bytes.
func encodeUint256(enc *scale.Encoder, v *uint256.Int) (int, error) {
	b := v.Bytes32()
	return scale.EncodeByteArray(enc, b[:])
}

func decodeUint256(dec *scale.Decoder, v *uint256.Int) (int, error) {
	var b [32]byte
	n, err := scale.DecodeByteArray(dec, b[:])
	if err != nil {
		return n, err
	}
	v.SetBytes32(b[:])
	return n, nil
}
