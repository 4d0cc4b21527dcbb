package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ammcore/internal/model"
	"ammcore/internal/storage"
)

// Schema creates the tables used by Store. Amounts are NUMERIC because they
// span the full uint64 range.
const Schema = `
CREATE TABLE IF NOT EXISTS pools (
	name        TEXT PRIMARY KEY,
	asset_a     TEXT NOT NULL,
	asset_b     TEXT NOT NULL,
	reserve_a   NUMERIC(20, 0) NOT NULL,
	reserve_b   NUMERIC(20, 0) NOT NULL,
	liquidity   NUMERIC(20, 0) NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS pool_receipts (
	id          BIGSERIAL PRIMARY KEY,
	pool_name   TEXT NOT NULL,
	op          TEXT NOT NULL,
	height      NUMERIC(20, 0) NOT NULL,
	before      JSONB NOT NULL,
	after       JSONB NOT NULL,
	input       JSONB NOT NULL,
	output      JSONB NOT NULL,
	liquidity   JSONB NOT NULL,
	applied_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS pool_receipts_pool_name_idx ON pool_receipts (pool_name, id);
`

// Store provides Postgres persistence for pool state and receipts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// LoadPool returns the stored snapshot for a pool name.
func (s *Store) LoadPool(ctx context.Context, name string) (model.PoolInfo, bool, error) {
	if name == "" {
		return model.PoolInfo{}, false, fmt.Errorf("pool name required")
	}
	var assetA, assetB, reserveA, reserveB, liquidity string
	row := s.pool.QueryRow(ctx, `
		SELECT asset_a, asset_b, reserve_a::TEXT, reserve_b::TEXT, liquidity::TEXT
		FROM pools WHERE name=$1
	`, name)
	if err := row.Scan(&assetA, &assetB, &reserveA, &reserveB, &liquidity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolInfo{}, false, nil
		}
		return model.PoolInfo{}, false, err
	}

	info, err := decodePool(assetA, assetB, reserveA, reserveB, liquidity)
	if err != nil {
		return model.PoolInfo{}, false, fmt.Errorf("decode pool %s: %w", name, err)
	}
	return info, true, nil
}

// SavePool stores info for a pool name if the stored row still equals
// expected, or, for nil expected, if no row exists yet.
func (s *Store) SavePool(ctx context.Context, name string, expected *model.PoolInfo, info model.PoolInfo) error {
	return s.SavePoolWithReceipts(ctx, name, expected, info, nil)
}

// SavePoolWithReceipts applies the conditional pool write and inserts the
// receipts in one transaction.
func (s *Store) SavePoolWithReceipts(ctx context.Context, name string, expected *model.PoolInfo, info model.PoolInfo, receipts []model.Receipt) error {
	if name == "" {
		return fmt.Errorf("pool name required")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var tag pgconn.CommandTag
	if expected == nil {
		tag, err = tx.Exec(ctx, `
			INSERT INTO pools (name, asset_a, asset_b, reserve_a, reserve_b, liquidity, created_at, updated_at)
			VALUES ($1, $2, $3, $4::NUMERIC, $5::NUMERIC, $6::NUMERIC, now(), now())
			ON CONFLICT (name) DO NOTHING
		`, append([]any{name}, poolArgs(info)...)...)
	} else {
		args := append([]any{name}, poolArgs(info)...)
		args = append(args, poolArgs(*expected)...)
		tag, err = tx.Exec(ctx, `
			UPDATE pools SET
				asset_a = $2,
				asset_b = $3,
				reserve_a = $4::NUMERIC,
				reserve_b = $5::NUMERIC,
				liquidity = $6::NUMERIC,
				updated_at = now()
			WHERE name = $1
				AND asset_a = $7
				AND asset_b = $8
				AND reserve_a = $9::NUMERIC
				AND reserve_b = $10::NUMERIC
				AND liquidity = $11::NUMERIC
		`, args...)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return model.ErrStateConflict.Wrapf("pool %s changed since it was loaded", name)
	}

	if err := putReceipts(ctx, tx, receipts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func poolArgs(info model.PoolInfo) []any {
	return []any{
		info.Reserves.A.ID.String(),
		info.Reserves.B.ID.String(),
		strconv.FormatUint(info.Reserves.A.Amount, 10),
		strconv.FormatUint(info.Reserves.B.Amount, 10),
		strconv.FormatUint(info.Liquidity, 10),
	}
}

// batchSender is satisfied by both pgxpool.Pool and pgx.Tx.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func putReceipts(ctx context.Context, conn batchSender, receipts []model.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range receipts {
		args, err := receiptArgs(r)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO pool_receipts (
				pool_name, op, height, before, after, input, output, liquidity, applied_at
			) VALUES ($1, $2, $3::NUMERIC, $4, $5, $6, $7, $8, $9)
		`, args...)
	}

	br := conn.SendBatch(ctx, batch)
	defer br.Close()

	for range receipts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func receiptArgs(r model.Receipt) ([]any, error) {
	fields := []any{r.Before, r.After, r.Input, r.Output, r.Liquidity}
	encoded := make([]any, 0, len(fields))
	for _, field := range fields {
		data, err := json.Marshal(field)
		if err != nil {
			return nil, fmt.Errorf("marshal receipt: %w", err)
		}
		encoded = append(encoded, string(data))
	}
	appliedAt, err := time.Parse(time.RFC3339Nano, r.AppliedAt)
	if err != nil {
		return nil, fmt.Errorf("parse applied_at %q: %w", r.AppliedAt, err)
	}

	args := []any{r.Pool, r.Op, strconv.FormatUint(r.Height, 10)}
	args = append(args, encoded...)
	return append(args, appliedAt), nil
}

func decodePool(assetA, assetB, reserveA, reserveB, liquidity string) (model.PoolInfo, error) {
	idA, err := model.ParseAssetID(assetA)
	if err != nil {
		return model.PoolInfo{}, err
	}
	idB, err := model.ParseAssetID(assetB)
	if err != nil {
		return model.PoolInfo{}, err
	}
	amounts := make([]uint64, 0, 3)
	for _, raw := range []string{reserveA, reserveB, liquidity} {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return model.PoolInfo{}, fmt.Errorf("parse amount %q: %w", raw, err)
		}
		amounts = append(amounts, v)
	}
	reserves, err := model.NewAssetPair(model.NewAsset(idA, amounts[0]), model.NewAsset(idB, amounts[1]))
	if err != nil {
		return model.PoolInfo{}, err
	}
	return model.NewPoolInfo(reserves, amounts[2])
}

// PoolState binds a Store to one pool name so it satisfies
// storage.JournaledStore.
type PoolState struct {
	Store *Store
	Name  string
}

func (s *PoolState) LoadPool(ctx context.Context) (model.PoolInfo, bool, error) {
	if s == nil || s.Store == nil {
		return model.PoolInfo{}, false, nil
	}
	return s.Store.LoadPool(ctx, s.Name)
}

func (s *PoolState) SavePool(ctx context.Context, expected *model.PoolInfo, info model.PoolInfo) error {
	return s.SavePoolWithReceipts(ctx, expected, info, nil)
}

func (s *PoolState) SavePoolWithReceipts(ctx context.Context, expected *model.PoolInfo, info model.PoolInfo, receipts []model.Receipt) error {
	if s == nil || s.Store == nil {
		return fmt.Errorf("postgres store is nil")
	}
	return s.Store.SavePoolWithReceipts(ctx, s.Name, expected, info, receipts)
}

var _ storage.JournaledStore = (*PoolState)(nil)
