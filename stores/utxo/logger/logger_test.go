package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/stores/utxo"
	"github.com/idc-chain/idcnode/stores/utxo/memory"
	"github.com/idc-chain/idcnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testTx() *model.Transaction {
	m := model.NewMutableTransaction()
	m.AddInput(model.NewTxIn(model.NewOutPoint(chainhash.DoubleHashH([]byte("prev")), 0), []byte{0x01, 0x02}))
	m.AddOutput(model.NewTxOut(model.COIN, []byte{0x51}))

	return m.Freeze()
}

func TestStore_PassesThroughAndLogs(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer

	logger := ulogger.New("utxo-logger-test", ulogger.WithWriter(&buf), ulogger.WithLevel("INFO"))
	s := New(logger, memory.New(ulogger.TestLogger{}))

	tx := testTx()
	blockHash := chainhash.DoubleHashH([]byte("block"))
	outpoint := model.NewOutPoint(tx.Hash(), 0)

	require.NoError(t, s.AddTransaction(ctx, tx, 5, blockHash))

	coin, err := s.GetCoin(ctx, outpoint)
	require.NoError(t, err)
	assert.Equal(t, int32(5), coin.Height)

	got, gotBlock, err := s.GetTransaction(ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), got.Hash())
	assert.Equal(t, blockHash, gotBlock)

	count := 0
	require.NoError(t, s.ForEach(ctx, func(model.OutPoint, *model.Coin) bool {
		count++
		return true
	}))
	assert.Equal(t, 1, count)

	spent, err := s.SpendCoin(ctx, outpoint)
	require.NoError(t, err)
	assert.Equal(t, model.COIN, spent.Out.Value)

	_, err = s.GetCoin(ctx, model.NewOutPoint(chainhash.Hash{}, 7))
	require.Error(t, err)

	logged := buf.String()
	assert.Contains(t, logged, "[UTXOStore][logger][AddTransaction] tx "+tx.Hash().String())
	assert.Contains(t, logged, "[UTXOStore][logger][GetCoin] outpoint "+outpoint.StringShort())
	assert.Contains(t, logged, "[UTXOStore][logger][SpendCoin]")
	assert.Contains(t, logged, "[UTXOStore][logger][ForEach] visited 1")
	assert.Contains(t, logged, "called from")
}

func TestStore_ReturnsErrors(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.NewStorageError("store unavailable")

	mockStore := &utxo.MockStore{}
	mockStore.On("GetCoin", mock.Anything, mock.Anything).Return(nil, storeErr)
	mockStore.On("ForEach", mock.Anything, mock.Anything).Return(storeErr)

	s := New(ulogger.TestLogger{}, mockStore)

	coin, err := s.GetCoin(ctx, model.NullOutPoint())
	assert.Nil(t, coin)
	assert.True(t, errors.Is(err, errors.ErrStorageError))

	err = s.ForEach(ctx, func(model.OutPoint, *model.Coin) bool { return true })
	assert.True(t, errors.Is(err, errors.ErrStorageError))

	mockStore.AssertExpectations(t)
}
