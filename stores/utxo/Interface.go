// Package utxo holds the coins view and transaction index used to resolve stake inputs.
package utxo

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/model"
)

type Store interface {
	// GetCoin returns the coin at outpoint, or ERR_TX_NOT_FOUND. A spent coin is returned with a null output.
	GetCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error)
	// SpendCoin marks the coin at outpoint spent and returns it as it was before spending.
	SpendCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error)
	// AddTransaction records tx as confirmed in blockHash at height and adds its spendable outputs as coins.
	AddTransaction(ctx context.Context, tx *model.Transaction, height int32, blockHash chainhash.Hash) error
	// GetTransaction returns a recorded transaction and the hash of the block that confirmed it.
	GetTransaction(ctx context.Context, hash chainhash.Hash) (*model.Transaction, chainhash.Hash, error)
	// ForEach calls fn for every unspent coin until fn returns false.
	ForEach(ctx context.Context, fn func(outpoint model.OutPoint, coin *model.Coin) bool) error
}
