package pricing

import (
	"github.com/holiman/uint256"

	"ammcore/internal/model"
)

// Operands are uint64, so any product of up to three of them fits in 256
// bits without wrapping.

func u256(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func toUint64(v *uint256.Int, what string) (uint64, error) {
	if !v.IsUint64() {
		return 0, model.ErrOverflow.Wrapf("%s %s exceeds uint64", what, v.ToBig().String())
	}
	return v.Uint64(), nil
}

// mulDiv computes floor(x*y/d).
func mulDiv(x, y, d uint64, what string) (uint64, error) {
	if d == 0 {
		return 0, model.ErrInvalidPoolState.Wrapf("%s: division by zero", what)
	}
	n := new(uint256.Int).Mul(u256(x), u256(y))
	return toUint64(n.Div(n, u256(d)), what)
}

// mulDivUp computes ceil(x*y/d).
func mulDivUp(x, y, d uint64, what string) (uint64, error) {
	if d == 0 {
		return 0, model.ErrInvalidPoolState.Wrapf("%s: division by zero", what)
	}
	n := new(uint256.Int).Mul(u256(x), u256(y))
	return toUint64(divUp(n, u256(d)), what)
}

func divUp(n, d *uint256.Int) *uint256.Int {
	q := new(uint256.Int).Div(n, d)
	r := new(uint256.Int).Mod(n, d)
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

// sqrtProduct computes floor(sqrt(x*y)).
func sqrtProduct(x, y uint64) uint64 {
	n := new(uint256.Int).Mul(u256(x), u256(y))
	// sqrt of a 128-bit value always fits in 64 bits
	return n.Sqrt(n).Uint64()
}
