package model

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error namespace for every pool accounting failure. The
// numeric codes are stable and double as revert codes for callers.
const Codespace = "amm"

// Pool accounting sentinel errors
var (
	ErrInvalidPair           = errorsmod.Register(Codespace, 2, "asset pair ids must be distinct")
	ErrAssetMismatch         = errorsmod.Register(Codespace, 3, "asset pairs are not aligned")
	ErrAssetNotInPair        = errorsmod.Register(Codespace, 4, "asset not in pair")
	ErrOrientationMismatch   = errorsmod.Register(Codespace, 5, "pair shares no orientation with reference")
	ErrOverflow              = errorsmod.Register(Codespace, 6, "amount overflow")
	ErrUnderflow             = errorsmod.Register(Codespace, 7, "amount underflow")
	ErrDeadlineExceeded      = errorsmod.Register(Codespace, 8, "deadline exceeded")
	ErrInsufficientReserve   = errorsmod.Register(Codespace, 9, "insufficient reserve")
	ErrInvalidPoolState      = errorsmod.Register(Codespace, 10, "invalid pool state")
	ErrSlippageExceeded      = errorsmod.Register(Codespace, 11, "slippage bound exceeded")
	ErrZeroAmount            = errorsmod.Register(Codespace, 12, "amount cannot be zero")
	ErrInsufficientLiquidity = errorsmod.Register(Codespace, 13, "insufficient liquidity")
	ErrStateConflict         = errorsmod.Register(Codespace, 14, "pool state changed since it was loaded")
)
