package utxo

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/model"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of Store.
type MockStore struct {
	mock.Mock
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) GetCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error) {
	args := m.Called(ctx, outpoint)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.Coin), args.Error(1)
}

func (m *MockStore) SpendCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error) {
	args := m.Called(ctx, outpoint)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.Coin), args.Error(1)
}

func (m *MockStore) AddTransaction(ctx context.Context, tx *model.Transaction, height int32, blockHash chainhash.Hash) error {
	args := m.Called(ctx, tx, height, blockHash)
	return args.Error(0)
}

func (m *MockStore) GetTransaction(ctx context.Context, hash chainhash.Hash) (*model.Transaction, chainhash.Hash, error) {
	args := m.Called(ctx, hash)

	if args.Get(0) == nil {
		return nil, chainhash.Hash{}, args.Error(2)
	}

	return args.Get(0).(*model.Transaction), args.Get(1).(chainhash.Hash), args.Error(2)
}

func (m *MockStore) ForEach(ctx context.Context, fn func(outpoint model.OutPoint, coin *model.Coin) bool) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}
