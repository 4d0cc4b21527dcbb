package model

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AssetID is an opaque 32-byte asset identifier. It is only ever compared
// for equality.
//
// Address-based tokens are stored ABI-aligned: 12 zero bytes followed by the
// 20-byte address. Native 32-byte identifiers are stored verbatim.
type AssetID [32]byte

// AssetIDFromAddress embeds an ERC20 token address into an AssetID.
func AssetIDFromAddress(addr common.Address) AssetID {
	var id AssetID
	copy(id[12:], addr[:])
	return id
}

// ParseAssetID accepts a 20-byte address or a 32-byte identifier in hex.
func ParseAssetID(input string) (AssetID, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return AssetID{}, fmt.Errorf("asset id is empty")
	}
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		input = "0x" + input
	}
	data, err := hexutil.Decode(input)
	if err != nil {
		return AssetID{}, fmt.Errorf("invalid asset id %s: %w", input, err)
	}
	switch len(data) {
	case common.AddressLength:
		return AssetIDFromAddress(common.BytesToAddress(data)), nil
	case common.HashLength:
		return AssetID(common.BytesToHash(data)), nil
	default:
		return AssetID{}, fmt.Errorf("invalid asset id length %d: %s", len(data), input)
	}
}

// ParseAssetIDs parses a list of hex identifiers, skipping blanks.
func ParseAssetIDs(inputs []string) ([]AssetID, error) {
	ids := make([]AssetID, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input) == "" {
			continue
		}
		id, err := ParseAssetID(input)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (id AssetID) IsZero() bool {
	return id == AssetID{}
}

// String returns the 0x-prefixed hex form of the full 32 bytes.
func (id AssetID) String() string {
	return hexutil.Encode(id[:])
}

// Short returns an abbreviated form for log lines.
func (id AssetID) Short() string {
	s := id.String()
	return s[:6] + ".." + s[len(s)-4:]
}

func (id AssetID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AssetID) UnmarshalText(text []byte) error {
	parsed, err := ParseAssetID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Asset is a quantity of a specific token in atomic units.
type Asset struct {
	ID     AssetID `json:"id"`
	Amount uint64  `json:"amount,string"`
}

// NewAsset builds an Asset. The amount range is bounded by its type.
func NewAsset(id AssetID, amount uint64) Asset {
	return Asset{ID: id, Amount: amount}
}

// WithAmount returns a copy of the asset carrying a different amount.
func (a Asset) WithAmount(amount uint64) Asset {
	return Asset{ID: a.ID, Amount: amount}
}

func (a Asset) IsZero() bool {
	return a.Amount == 0
}

func (a Asset) String() string {
	return fmt.Sprintf("%d@%s", a.Amount, a.ID.Short())
}
