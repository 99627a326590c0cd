// Package ratio implements fixed-denominator percentage arithmetic on voting power.
package ratio

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Base is the denominator of all ratios: 1_000_000 is 100% with 6 implied decimals.
const Base = 1_000_000

var base = uint256.NewInt(Base)

// Valid returns true if r is in [0, Base].
func Valid(r uint32) bool {
	return r <= Base
}

// Percent converts a whole percentage into a ratio. Panics above 100.
func Percent(p uint32) uint32 {
	if p > 100 {
		panic(fmt.Sprintf("percentage %d is above 100", p))
	}
	return p * (Base / 100)
}

// CeilDiv returns ceil(x / y). Panics if y is zero.
func CeilDiv(x, y *uint256.Int) *uint256.Int {
	if y.IsZero() {
		panic("division by zero")
	}
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(x, y, r)
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

// ApplyCeiled returns ceil(value * r / Base). The product is computed with a 512-bit
// intermediate so it never overflows for r <= Base.
func ApplyCeiled(value *uint256.Int, r uint32) (*uint256.Int, error) {
	if !Valid(r) {
		return nil, fmt.Errorf("ratio %d exceeds base %d", r, Base)
	}
	rv := uint256.NewInt(uint64(r))
	q, overflow := new(uint256.Int).MulDivOverflow(value, rv, base)
	if overflow {
		// unreachable for r <= Base, the result is at most value.
		return nil, fmt.Errorf("ratio %d of %s overflows", r, value.Dec())
	}
	if !new(uint256.Int).MulMod(value, rv, base).IsZero() {
		q.AddUint64(q, 1)
	}
	return q, nil
}
