package sql

import (
	"context"
	"database/sql"

	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/util"
)

// GetBlockIndexByHeight walks back from the best entry along prev_hash until it reaches height.
func (s *SQL) GetBlockIndexByHeight(ctx context.Context, height int32) (*model.BlockIndex, error) {
	start, stat, ctx := util.StartStatFromContext(ctx, "GetBlockIndexByHeight")
	defer func() {
		stat.AddTime(start)
	}()

	q := `
		WITH RECURSIVE active_chain AS (
			SELECT
				 best.hash
				,best.prev_hash
				,best.height
				,best.block_time
				,best.n_bits
				,best.money_supply
			FROM (
				SELECT hash, prev_hash, height, block_time, n_bits, money_supply
				FROM block_index
				ORDER BY height DESC, id ASC
				LIMIT 1
			) best
			UNION ALL
			SELECT
				 b.hash
				,b.prev_hash
				,b.height
				,b.block_time
				,b.n_bits
				,b.money_supply
			FROM block_index b
			INNER JOIN active_chain ac ON b.hash = ac.prev_hash
			WHERE ac.height > $1
		)
		SELECT
			 hash
			,prev_hash
			,height
			,block_time
			,n_bits
			,money_supply
		FROM active_chain
		WHERE height = $1
	`

	bi, err := scanBlockIndex(s.db.QueryRowContext(ctx, q, height))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewBlockNotFoundError("no block index at height %d", height)
		}

		return nil, errors.NewStorageError("failed to get block index at height %d", height, err)
	}

	return bi, nil
}
