package memory

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/ulogger"
)

type txData struct {
	tx        *model.Transaction
	blockHash chainhash.Hash
}

type Memory struct {
	logger ulogger.Logger
	mu     sync.RWMutex
	coins  map[model.OutPoint]*model.Coin
	txs    map[chainhash.Hash]*txData
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger: logger,
		coins:  make(map[model.OutPoint]*model.Coin),
		txs:    make(map[chainhash.Hash]*txData),
	}
}

func (m *Memory) GetCoin(_ context.Context, outpoint model.OutPoint) (*model.Coin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coin, ok := m.coins[outpoint]
	if !ok {
		return nil, errors.NewTxNotFoundError("coin %s not found", outpoint.StringShort())
	}

	return copyCoin(coin), nil
}

func (m *Memory) SpendCoin(_ context.Context, outpoint model.OutPoint) (*model.Coin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	coin, ok := m.coins[outpoint]
	if !ok {
		return nil, errors.NewTxNotFoundError("coin %s not found", outpoint.StringShort())
	}

	if coin.IsSpent() {
		return nil, errors.NewTxInvalidError("coin %s already spent", outpoint.StringShort())
	}

	before := copyCoin(coin)
	coin.Out.SetNull()

	return before, nil
}

func (m *Memory) AddTransaction(_ context.Context, tx *model.Transaction, height int32, blockHash chainhash.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := tx.Hash()
	if _, ok := m.txs[hash]; ok {
		return errors.NewTxInvalidError("%s already exists", hash)
	}

	m.txs[hash] = &txData{tx: tx, blockHash: blockHash}

	for i := 0; i < tx.OutputCount(); i++ {
		out := tx.Output(i)
		if out.IsUnspendable() {
			continue
		}

		n, err := safeconversion.IntToUint32(i)
		if err != nil {
			return errors.NewProcessingError("output index %d of %s", i, hash, err)
		}

		m.coins[model.NewOutPoint(hash, n)] = model.NewCoin(tx, i, height)
	}

	return nil
}

func (m *Memory) GetTransaction(_ context.Context, hash chainhash.Hash) (*model.Transaction, chainhash.Hash, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.txs[hash]
	if !ok {
		return nil, chainhash.Hash{}, errors.NewTxNotFoundError("transaction %s not found", hash)
	}

	return data.tx, data.blockHash, nil
}

func (m *Memory) ForEach(ctx context.Context, fn func(outpoint model.OutPoint, coin *model.Coin) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for outpoint, coin := range m.coins {
		if err := ctx.Err(); err != nil {
			return errors.NewContextCanceledError("coin iteration canceled", err)
		}

		if coin.IsSpent() {
			continue
		}

		if !fn(outpoint, copyCoin(coin)) {
			return nil
		}
	}

	return nil
}

func copyCoin(c *model.Coin) *model.Coin {
	copied := *c
	copied.Out = c.Out.Clone()

	return &copied
}
