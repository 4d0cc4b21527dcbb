package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ammcore/internal/model"
)

// PoolConfig holds the pool binding shared by every ammctl command.
type PoolConfig struct {
	PoolName       string
	StateFile      string
	PGDSN          string
	Journal        string
	RPCURL         string
	Height         uint64
	FeeBps         uint64
	AssetA         string
	AssetB         string
	LiquidityAsset string
	MaxRetries     int
	RetryBackoff   time.Duration
	MetricsFile    string
	LogLevel       string
}

// Load merges config file, environment variables, and flags into PoolConfig.
func Load(cfgFile string, flags *pflag.FlagSet) (PoolConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return PoolConfig{}, err
	}
	return poolConfig(v), nil
}

func poolConfig(v *viper.Viper) PoolConfig {
	return PoolConfig{
		PoolName:       v.GetString("pool-name"),
		StateFile:      v.GetString("state-file"),
		PGDSN:          v.GetString("pg-dsn"),
		Journal:        v.GetString("journal"),
		RPCURL:         v.GetString("rpc"),
		Height:         v.GetUint64("height"),
		FeeBps:         v.GetUint64("fee-bps"),
		AssetA:         v.GetString("asset-a"),
		AssetB:         v.GetString("asset-b"),
		LiquidityAsset: v.GetString("liquidity-asset"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		MetricsFile:    v.GetString("metrics-file"),
		LogLevel:       v.GetString("log-level"),
	}
}

// Assets parses the configured reserve and liquidity asset ids.
func (c PoolConfig) Assets() (a, b, liquidity model.AssetID, err error) {
	ids, err := model.ParseAssetIDs([]string{c.AssetA, c.AssetB, c.LiquidityAsset})
	if err != nil {
		return a, b, liquidity, err
	}
	if len(ids) != 3 {
		return a, b, liquidity, fmt.Errorf("asset-a, asset-b and liquidity-asset are required")
	}
	return ids[0], ids[1], ids[2], nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("AMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("pool-name", "default")
	v.SetDefault("state-file", "./data/pool.json")
	v.SetDefault("journal", "./data/receipts.jsonl")
	v.SetDefault("fee-bps", uint64(30))
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}
