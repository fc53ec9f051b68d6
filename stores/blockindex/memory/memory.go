package memory

import (
	"context"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/ulogger"
)

type Memory struct {
	logger  ulogger.Logger
	mu      sync.RWMutex
	entries map[chainhash.Hash]*model.BlockIndex
	best    *model.BlockIndex
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger:  logger,
		entries: make(map[chainhash.Hash]*model.BlockIndex),
	}
}

func (m *Memory) GetBlockIndex(_ context.Context, hash chainhash.Hash) (*model.BlockIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bi, ok := m.entries[hash]
	if !ok {
		return nil, errors.NewBlockNotFoundError("block index %s not found", hash)
	}

	copied := *bi

	return &copied, nil
}

func (m *Memory) GetBlockIndexByHeight(_ context.Context, height int32) (*model.BlockIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.best == nil || height > m.best.Height || height < 0 {
		return nil, errors.NewBlockNotFoundError("no block index at height %d", height)
	}

	bi := m.best
	for bi.Height > height {
		parent, ok := m.entries[bi.PrevHash]
		if !ok {
			return nil, errors.NewBlockNotFoundError("no block index at height %d", height)
		}

		bi = parent
	}

	copied := *bi

	return &copied, nil
}

func (m *Memory) GetBestBlockIndex(_ context.Context) (*model.BlockIndex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.best == nil {
		return nil, errors.NewBlockNotFoundError("block index is empty")
	}

	copied := *m.best

	return &copied, nil
}

func (m *Memory) StoreBlockIndex(_ context.Context, bi *model.BlockIndex) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[bi.Hash]; ok {
		return errors.NewBlockExistsError("block index %s already exists", bi.Hash)
	}

	if len(m.entries) > 0 {
		parent, ok := m.entries[bi.PrevHash]
		if !ok {
			return errors.NewBlockInvalidError("parent %s of block index %s not found", bi.PrevHash, bi.Hash)
		}

		if parent.Height+1 != bi.Height {
			return errors.NewBlockInvalidError("block index %s has height %d, parent has %d", bi.Hash, bi.Height, parent.Height)
		}
	}

	stored := *bi
	m.entries[bi.Hash] = &stored

	if m.best == nil || stored.Height > m.best.Height {
		m.best = &stored
	}

	m.logger.Debugf("[BlockIndex] stored %s", stored.String())

	return nil
}

func (m *Memory) Close() error {
	return nil
}
