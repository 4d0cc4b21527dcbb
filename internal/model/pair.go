package model

import (
	"fmt"
	"math/bits"
)

// AssetPair holds the two sides of a pool: reserves, a deposit, a withdrawal
// or a delta. Slot order matters only relative to a reference pair; two pairs
// are aligned when their ids match slot by slot.
type AssetPair struct {
	A Asset `json:"a"`
	B Asset `json:"b"`
}

// NewAssetPair builds a pair from two distinct assets.
func NewAssetPair(a, b Asset) (AssetPair, error) {
	if a.ID == b.ID {
		return AssetPair{}, ErrInvalidPair.Wrapf("both slots hold %s", a.ID)
	}
	return AssetPair{A: a, B: b}, nil
}

// Validate re-checks the distinct-id invariant on pairs that did not come
// through NewAssetPair, such as decoded state.
func (p AssetPair) Validate() error {
	if p.A.ID == p.B.ID {
		return ErrInvalidPair.Wrapf("both slots hold %s", p.A.ID)
	}
	return nil
}

func (p AssetPair) IDs() (AssetID, AssetID) {
	return p.A.ID, p.B.ID
}

func (p AssetPair) Amounts() (uint64, uint64) {
	return p.A.Amount, p.B.Amount
}

// Contains reports whether id occupies either slot.
func (p AssetPair) Contains(id AssetID) bool {
	return p.A.ID == id || p.B.ID == id
}

// Aligned reports whether both pairs hold the same ids in the same slots.
func (p AssetPair) Aligned(other AssetPair) bool {
	return p.A.ID == other.A.ID && p.B.ID == other.B.ID
}

// ThisAsset returns the asset whose id is id.
func (p AssetPair) ThisAsset(id AssetID) (Asset, error) {
	switch id {
	case p.A.ID:
		return p.A, nil
	case p.B.ID:
		return p.B, nil
	default:
		return Asset{}, ErrAssetNotInPair.Wrapf("%s not in (%s, %s)", id, p.A.ID, p.B.ID)
	}
}

// OtherAsset returns the asset opposite to id.
func (p AssetPair) OtherAsset(id AssetID) (Asset, error) {
	switch id {
	case p.A.ID:
		return p.B, nil
	case p.B.ID:
		return p.A, nil
	default:
		return Asset{}, ErrAssetNotInPair.Wrapf("%s not in (%s, %s)", id, p.A.ID, p.B.ID)
	}
}

// Sort returns a copy of p whose A slot holds the asset sharing reference.A's
// id. Pool operations sort every caller pair against the reserves before any
// arithmetic.
func (p AssetPair) Sort(reference AssetPair) (AssetPair, error) {
	switch reference.A.ID {
	case p.A.ID:
		return p, nil
	case p.B.ID:
		return AssetPair{A: p.B, B: p.A}, nil
	default:
		return AssetPair{}, ErrOrientationMismatch.Wrapf("reference %s not in (%s, %s)", reference.A.ID, p.A.ID, p.B.ID)
	}
}

// Add sums two aligned pairs slot by slot, keeping p's ids.
func (p AssetPair) Add(other AssetPair) (AssetPair, error) {
	if !p.Aligned(other) {
		return AssetPair{}, mismatch(p, other)
	}
	a, carryA := bits.Add64(p.A.Amount, other.A.Amount, 0)
	if carryA != 0 {
		return AssetPair{}, ErrOverflow.Wrapf("%d + %d for %s", p.A.Amount, other.A.Amount, p.A.ID)
	}
	b, carryB := bits.Add64(p.B.Amount, other.B.Amount, 0)
	if carryB != 0 {
		return AssetPair{}, ErrOverflow.Wrapf("%d + %d for %s", p.B.Amount, other.B.Amount, p.B.ID)
	}
	return AssetPair{A: p.A.WithAmount(a), B: p.B.WithAmount(b)}, nil
}

// Subtract takes other from p slot by slot. A slot going negative fails
// the whole subtraction.
func (p AssetPair) Subtract(other AssetPair) (AssetPair, error) {
	if !p.Aligned(other) {
		return AssetPair{}, mismatch(p, other)
	}
	a, borrowA := bits.Sub64(p.A.Amount, other.A.Amount, 0)
	if borrowA != 0 {
		return AssetPair{}, ErrUnderflow.Wrapf("%d - %d for %s", p.A.Amount, other.A.Amount, p.A.ID)
	}
	b, borrowB := bits.Sub64(p.B.Amount, other.B.Amount, 0)
	if borrowB != 0 {
		return AssetPair{}, ErrUnderflow.Wrapf("%d - %d for %s", p.B.Amount, other.B.Amount, p.B.ID)
	}
	return AssetPair{A: p.A.WithAmount(a), B: p.B.WithAmount(b)}, nil
}

// WithAmounts returns a pair with the same ids and new amounts.
func (p AssetPair) WithAmounts(a, b uint64) AssetPair {
	return AssetPair{A: p.A.WithAmount(a), B: p.B.WithAmount(b)}
}

// Zero returns the pair with both amounts cleared.
func (p AssetPair) Zero() AssetPair {
	return p.WithAmounts(0, 0)
}

// Delta builds a pair aligned with p carrying amount on the side of asset
// and zero on the other.
func (p AssetPair) Delta(asset Asset) (AssetPair, error) {
	switch asset.ID {
	case p.A.ID:
		return p.WithAmounts(asset.Amount, 0), nil
	case p.B.ID:
		return p.WithAmounts(0, asset.Amount), nil
	default:
		return AssetPair{}, ErrAssetNotInPair.Wrapf("%s not in (%s, %s)", asset.ID, p.A.ID, p.B.ID)
	}
}

func (p AssetPair) String() string {
	return fmt.Sprintf("(%s, %s)", p.A, p.B)
}

func mismatch(p, other AssetPair) error {
	return ErrAssetMismatch.Wrapf("(%s, %s) vs (%s, %s)", p.A.ID, p.B.ID, other.A.ID, other.B.ID)
}
