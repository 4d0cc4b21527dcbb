package model

// Operation names recorded in receipts.
const (
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwapExactInput  = "swap_exact_input"
	OpSwapExactOutput = "swap_exact_output"
	OpSnapshot        = "snapshot"
)

// Receipt records one applied pool mutation for the journal.
type Receipt struct {
	Pool      string    `json:"pool"`
	Op        string    `json:"op"`
	Height    uint64    `json:"height"`
	Before    PoolInfo  `json:"before"`
	After     PoolInfo  `json:"after"`
	Input     AssetPair `json:"input"`
	Output    AssetPair `json:"output"`
	Liquidity Asset     `json:"liquidity"`
	AppliedAt string    `json:"applied_at"`
}
