package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ammcore/internal/model"
	"ammcore/internal/storage"
)

const (
	assetX = "0x1111111111111111111111111111111111111111"
	assetY = "0x2222222222222222222222222222222222222222"
	assetL = "0x4444444444444444444444444444444444444444"
)

func execCLI(dir string, args ...string) ([]byte, error) {
	base := []string{
		"--state-file", filepath.Join(dir, "pool.json"),
		"--journal", filepath.Join(dir, "receipts.jsonl"),
		"--metrics-file", filepath.Join(dir, "metrics.prom"),
		"--height", "10",
		"--asset-a", assetX,
		"--asset-b", assetY,
		"--liquidity-asset", assetL,
		"--log-level", "error",
	}
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, base...))
	err := root.Execute()
	return out.Bytes(), err
}

func runCLI(t *testing.T, dir string, args ...string) []byte {
	t.Helper()
	out, err := execCLI(dir, args...)
	if err != nil {
		t.Fatalf("ammctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestAddSwapShow(t *testing.T) {
	dir := t.TempDir()

	var added model.AddLiquidityInfo
	if err := json.Unmarshal(runCLI(t, dir, "add", "--amount-a", "1000000", "--amount-b", "1000000"), &added); err != nil {
		t.Fatalf("decode add: %v", err)
	}
	if added.MintedLiquidity.Amount != 1_000_000 {
		t.Fatalf("minted mismatch: %+v", added.MintedLiquidity)
	}

	var swapped model.SwapInfo
	if err := json.Unmarshal(runCLI(t, dir, "swap", "--asset", assetX, "--amount", "1000", "--limit", "990"), &swapped); err != nil {
		t.Fatalf("decode swap: %v", err)
	}
	if swapped.Output.Amount != 996 {
		t.Fatalf("swap output mismatch: %+v", swapped.Output)
	}

	var shown struct {
		Pool model.PoolInfo `json:"pool"`
	}
	if err := json.Unmarshal(runCLI(t, dir, "show"), &shown); err != nil {
		t.Fatalf("decode show: %v", err)
	}
	if a, b := shown.Pool.Reserves.Amounts(); a != 1_001_000 || b != 999_004 {
		t.Fatalf("reserves mismatch: %s", shown.Pool.Reserves)
	}

	receipts, err := storage.NewJsonlJournal(filepath.Join(dir, "receipts.jsonl")).ReadReceipts()
	if err != nil {
		t.Fatalf("read receipts: %v", err)
	}
	if len(receipts) != 2 || receipts[1].Op != model.OpSwapExactInput {
		t.Fatalf("unexpected receipts: %+v", receipts)
	}

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metrics), "amm_pool_lp_token_supply") {
		t.Fatalf("metrics file missing pool gauge:\n%s", metrics)
	}
}

func TestSwapRejections(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "add", "--amount-a", "1000", "--amount-b", "1000")

	if _, err := execCLI(dir, "swap", "--asset", assetX, "--amount", "10", "--deadline", "9"); err == nil {
		t.Fatalf("expected deadline rejection")
	}
	if _, err := execCLI(dir, "swap", "--asset", assetX, "--amount", "100", "--limit", "100"); err == nil {
		t.Fatalf("expected slippage rejection")
	}
}
