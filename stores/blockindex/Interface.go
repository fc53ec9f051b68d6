// Package blockindex stores the chain context of accepted blocks.
package blockindex

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/model"
)

// Store holds block index entries. The active chain is the one ending at the best entry:
// the highest one, the earliest stored winning ties.
type Store interface {
	// GetBlockIndex returns the entry for hash on any chain, or ERR_BLOCK_NOT_FOUND.
	GetBlockIndex(ctx context.Context, hash chainhash.Hash) (*model.BlockIndex, error)
	// GetBlockIndexByHeight returns the active chain entry at height, or ERR_BLOCK_NOT_FOUND.
	GetBlockIndexByHeight(ctx context.Context, height int32) (*model.BlockIndex, error)
	GetBestBlockIndex(ctx context.Context) (*model.BlockIndex, error)
	// StoreBlockIndex adds an entry. Every entry but the first must extend a stored parent.
	StoreBlockIndex(ctx context.Context, bi *model.BlockIndex) error
	Close() error
}
