// Package stakeinput models the coin being staked when producing or validating a
// proof-of-stake block.
package stakeinput

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/idc-chain/idcnode/model"
)

// StakeInput is a coin offered as proof of stake. Every operation reports failure explicitly;
// a failing stake input is simply not usable and must never stop the caller.
type StakeInput interface {
	// InitFromTxIn binds the input being validated to this stake. It fails when the block the
	// staked output was confirmed in is unknown.
	InitFromTxIn(txIn model.TxIn) error

	// GetIndexFrom returns the block the staked output was confirmed in.
	GetIndexFrom() *model.BlockIndex

	// CreateTxIn returns the coinstake input spending the staked output. hashTxOut is the hash
	// of the assembled block for variants that bind to it.
	CreateTxIn(wallet Wallet, hashTxOut *chainhash.Hash) (model.TxIn, error)

	GetTxOutFrom() (model.TxOut, error)
	GetValue() model.Amount

	// CreateTxOuts returns the coinstake payout outputs carrying total between them.
	CreateTxOuts(wallet Wallet, total model.Amount, onlyP2PK bool, splitOutputs int) ([]model.TxOut, error)

	// GetUniqueness returns the bytes fed into the stake kernel hash. They are stable for a
	// given output and distinct between outputs.
	GetUniqueness() []byte

	// ContextCheck fails unless the staked output is old or deep enough for a block at
	// height and blockTime.
	ContextCheck(height int32, blockTime uint32) error
}

// ChainIndex resolves block contexts on the active chain.
type ChainIndex interface {
	GetBlockIndex(ctx context.Context, hash chainhash.Hash) (*model.BlockIndex, error)
	GetBlockIndexByHeight(ctx context.Context, height int32) (*model.BlockIndex, error)
	GetBestBlockIndex(ctx context.Context) (*model.BlockIndex, error)
}

// CoinsView returns outputs by outpoint. Unknown outputs are ERR_TX_NOT_FOUND errors; a spent
// output may come back as a coin with a null output.
type CoinsView interface {
	GetCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error)
}

// TxIndex finds confirmed transactions and the block that contains them.
type TxIndex interface {
	GetTransaction(ctx context.Context, hash chainhash.Hash) (*model.Transaction, chainhash.Hash, error)
}

// Wallet holds the private keys of the staker.
type Wallet interface {
	GetKey(keyID model.KeyID) (*bec.PrivateKey, error)
}
