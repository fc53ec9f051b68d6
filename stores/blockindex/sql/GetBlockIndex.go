package sql

import (
	"context"
	"database/sql"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/util"
	"github.com/jellydator/ttlcache/v3"
)

func (s *SQL) GetBlockIndex(ctx context.Context, hash chainhash.Hash) (*model.BlockIndex, error) {
	start, stat, ctx := util.StartStatFromContext(ctx, "GetBlockIndex")
	defer func() {
		stat.AddTime(start)
	}()

	if item := s.indexCache.Get(hash); item != nil {
		copied := *item.Value()
		return &copied, nil
	}

	q := `
		SELECT
			 b.hash
			,b.prev_hash
			,b.height
			,b.block_time
			,b.n_bits
			,b.money_supply
		FROM block_index b
		WHERE b.hash = $1
	`

	bi, err := scanBlockIndex(s.db.QueryRowContext(ctx, q, hash[:]))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewBlockNotFoundError("block index %s not found", hash)
		}

		return nil, errors.NewStorageError("failed to get block index %s", hash, err)
	}

	s.indexCache.Set(hash, bi, ttlcache.DefaultTTL)

	copied := *bi

	return &copied, nil
}
