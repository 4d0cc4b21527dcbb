package postgres

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"ammcore/internal/model"
)

const (
	hexX = "0x0000000000000000000000001111111111111111111111111111111111111111"
	hexY = "0x0000000000000000000000002222222222222222222222222222222222222222"
)

func TestDecodePool(t *testing.T) {
	info, err := decodePool(hexX, hexY, "18446744073709551615", "2000", "100")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a, b := info.Reserves.Amounts(); a != 18446744073709551615 || b != 2000 {
		t.Fatalf("amount mismatch: %s", info.Reserves)
	}
	if info.Liquidity != 100 {
		t.Fatalf("liquidity mismatch: %d", info.Liquidity)
	}
	if info.Reserves.A.ID.String() != hexX {
		t.Fatalf("id mismatch: %s", info.Reserves.A.ID)
	}
}

func TestDecodePoolRejectsInvalidState(t *testing.T) {
	if _, err := decodePool(hexX, hexX, "0", "0", "0"); !errors.Is(err, model.ErrInvalidPair) {
		t.Fatalf("expected ErrInvalidPair, got %v", err)
	}
	if _, err := decodePool(hexX, hexY, "10", "0", "5"); !errors.Is(err, model.ErrInvalidPoolState) {
		t.Fatalf("expected ErrInvalidPoolState, got %v", err)
	}
	if _, err := decodePool(hexX, hexY, "-1", "0", "0"); err == nil {
		t.Fatalf("expected parse error for negative amount")
	}
}

func TestReceiptArgs(t *testing.T) {
	idX, _ := model.ParseAssetID(hexX)
	idY, _ := model.ParseAssetID(hexY)
	receipt := model.Receipt{
		Pool:      "x-y",
		Op:        model.OpSwapExactInput,
		Height:    42,
		Input:     model.AssetPair{A: model.NewAsset(idX, 10), B: model.NewAsset(idY, 0)},
		AppliedAt: "2024-01-01T00:00:00Z",
	}

	args, err := receiptArgs(receipt)
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	if len(args) != 9 {
		t.Fatalf("expected 9 args, got %d", len(args))
	}
	if args[2] != "42" {
		t.Fatalf("height arg mismatch: %v", args[2])
	}
	input, ok := args[5].(string)
	if !ok || !strings.Contains(input, `"amount":"10"`) {
		t.Fatalf("input arg mismatch: %v", args[5])
	}
}

func TestReceiptArgsRejectsBadTimestamp(t *testing.T) {
	receipt := model.Receipt{Pool: "x-y", Op: model.OpSnapshot, AppliedAt: "yesterday"}
	if _, err := receiptArgs(receipt); err == nil {
		t.Fatalf("expected error for unparseable applied_at")
	}
}

func TestPoolArgs(t *testing.T) {
	info, err := decodePool(hexX, hexY, "1000", "2000", "100")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := poolArgs(info)
	want := []any{hexX, hexY, "1000", "2000", "100"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pool args mismatch: %v != %v", got, want)
	}
}
