package sql

import (
	"context"

	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/util"
)

func (s *SQL) StoreBlockIndex(ctx context.Context, bi *model.BlockIndex) error {
	start, stat, ctx := util.StartStatFromContext(ctx, "StoreBlockIndex")
	defer func() {
		stat.AddTime(start)
	}()

	if _, err := s.GetBlockIndex(ctx, bi.Hash); err == nil {
		return errors.NewBlockExistsError("block index %s already exists", bi.Hash)
	} else if !errors.Is(err, errors.ErrBlockNotFound) {
		return err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM block_index`).Scan(&count); err != nil {
		return errors.NewStorageError("failed to count block index entries", err)
	}

	if count > 0 {
		parent, err := s.GetBlockIndex(ctx, bi.PrevHash)
		if err != nil {
			if errors.Is(err, errors.ErrBlockNotFound) {
				return errors.NewBlockInvalidError("parent %s of block index %s not found", bi.PrevHash, bi.Hash)
			}

			return err
		}

		if parent.Height+1 != bi.Height {
			return errors.NewBlockInvalidError("block index %s has height %d, parent has %d", bi.Hash, bi.Height, parent.Height)
		}
	}

	q := `
		INSERT INTO block_index (
			 hash
			,prev_hash
			,height
			,block_time
			,n_bits
			,money_supply
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := s.db.ExecContext(ctx, q,
		bi.Hash[:],
		bi.PrevHash[:],
		int64(bi.Height),
		int64(bi.Time),
		int64(bi.Bits),
		int64(bi.MoneySupply),
	); err != nil {
		return errors.NewStorageError("failed to store block index %s", bi.Hash, err)
	}

	s.logger.Debugf("[BlockIndex] stored %s", bi.String())

	return nil
}
