package config

import (
	"github.com/spf13/pflag"
)

// SnapshotConfig adds the on-chain pair to import to a PoolConfig.
type SnapshotConfig struct {
	PoolConfig
	Pair  string
	Block uint64
}

// LoadSnapshot merges config file, environment variables, and flags into SnapshotConfig.
func LoadSnapshot(cfgFile string, flags *pflag.FlagSet) (SnapshotConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return SnapshotConfig{}, err
	}
	return SnapshotConfig{
		PoolConfig: poolConfig(v),
		Pair:       v.GetString("pair"),
		Block:      v.GetUint64("block"),
	}, nil
}
