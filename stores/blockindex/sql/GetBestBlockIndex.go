package sql

import (
	"context"
	"database/sql"

	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/util"
)

func (s *SQL) GetBestBlockIndex(ctx context.Context) (*model.BlockIndex, error) {
	start, stat, ctx := util.StartStatFromContext(ctx, "GetBestBlockIndex")
	defer func() {
		stat.AddTime(start)
	}()

	q := `
		SELECT
			 b.hash
			,b.prev_hash
			,b.height
			,b.block_time
			,b.n_bits
			,b.money_supply
		FROM block_index b
		ORDER BY b.height DESC, b.id ASC
		LIMIT 1
	`

	bi, err := scanBlockIndex(s.db.QueryRowContext(ctx, q))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewBlockNotFoundError("block index is empty")
		}

		return nil, errors.NewStorageError("failed to get best block index", err)
	}

	return bi, nil
}
