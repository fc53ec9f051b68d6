package sql

import (
	"context"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/settings"
	"github.com/idc-chain/idcnode/ulogger"
	"github.com/idc-chain/idcnode/util"
	"github.com/idc-chain/idcnode/util/usql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashOf(b byte) chainhash.Hash {
	return chainhash.DoubleHashH([]byte{b})
}

func entry(id, parent byte, height int32) *model.BlockIndex {
	bi := &model.BlockIndex{
		Hash:        hashOf(id),
		Height:      height,
		Time:        1_600_000_000 + uint32(height)*60,
		Bits:        0x1e0ffff0,
		MoneySupply: model.Amount(height) * model.COIN,
	}

	if parent != 0 {
		bi.PrevHash = hashOf(parent)
	}

	return bi
}

func newSqliteMemoryStore(t *testing.T) *SQL {
	storeURL, err := url.Parse("sqlitememory:///blockindex")
	require.NoError(t, err)

	s, err := New(ulogger.TestLogger{}, storeURL, settings.NewSettings())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestSQL_StoreAndGet(t *testing.T) {
	ctx := context.Background()
	s := newSqliteMemoryStore(t)

	_, err := s.GetBestBlockIndex(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockNotFound))

	genesis := entry(1, 0, 0)
	require.NoError(t, s.StoreBlockIndex(ctx, genesis))

	bi, err := s.GetBlockIndex(ctx, genesis.Hash)
	require.NoError(t, err)
	assert.Equal(t, genesis, bi)

	t.Run("duplicate", func(t *testing.T) {
		err := s.StoreBlockIndex(ctx, genesis)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockExists))
	})

	t.Run("unknown parent", func(t *testing.T) {
		err := s.StoreBlockIndex(ctx, entry(9, 8, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
	})

	t.Run("wrong height", func(t *testing.T) {
		err := s.StoreBlockIndex(ctx, entry(9, 1, 5))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := s.GetBlockIndex(ctx, hashOf(42))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrBlockNotFound))
	})
}

func TestSQL_ActiveChain(t *testing.T) {
	ctx := context.Background()
	s := newSqliteMemoryStore(t)

	// 1 <- 2 <- 3 and 1 <- 4 <- 5 <- 6
	require.NoError(t, s.StoreBlockIndex(ctx, entry(1, 0, 0)))
	require.NoError(t, s.StoreBlockIndex(ctx, entry(2, 1, 1)))
	require.NoError(t, s.StoreBlockIndex(ctx, entry(3, 2, 2)))
	require.NoError(t, s.StoreBlockIndex(ctx, entry(4, 1, 1)))
	require.NoError(t, s.StoreBlockIndex(ctx, entry(5, 4, 2)))

	best, err := s.GetBestBlockIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, hashOf(3), best.Hash)

	bi, err := s.GetBlockIndexByHeight(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, hashOf(2), bi.Hash)

	require.NoError(t, s.StoreBlockIndex(ctx, entry(6, 5, 3)))

	best, err = s.GetBestBlockIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, hashOf(6), best.Hash)

	for height, id := range map[int32]byte{0: 1, 1: 4, 2: 5, 3: 6} {
		bi, err := s.GetBlockIndexByHeight(ctx, height)
		require.NoError(t, err)
		assert.Equal(t, hashOf(id), bi.Hash, "height %d", height)
		assert.Equal(t, height, bi.Height)
	}

	_, err = s.GetBlockIndexByHeight(ctx, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockNotFound))

	// off the active chain, but still known by hash
	bi, err = s.GetBlockIndex(ctx, hashOf(3))
	require.NoError(t, err)
	assert.Equal(t, int32(2), bi.Height)
}

func newMockStore(t *testing.T) (*SQL, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS block_index").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS ux_block_index_hash").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_block_index_height_id").WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := newWithDB(ulogger.TestLogger{}, usql.Wrap(db, string(util.Sqlite)), util.Sqlite)
	require.NoError(t, err)

	return s, mock
}

func TestSQL_DriverErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("query error is a storage error", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT").WillReturnError(errors.NewError("connection reset"))

		_, err := s.GetBestBlockIndex(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStorageError))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt hash", func(t *testing.T) {
		s, mock := newMockStore(t)

		rows := sqlmock.NewRows([]string{"hash", "prev_hash", "height", "block_time", "n_bits", "money_supply"}).
			AddRow([]byte{1, 2, 3}, make([]byte, 32), 1, 1_600_000_000, 0, 0)
		mock.ExpectQuery("SELECT").WillReturnRows(rows)

		_, err := s.GetBlockIndexByHeight(ctx, 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStorageError))
	})

	t.Run("insert error", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"hash"}))
		mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("INSERT INTO block_index").WillReturnError(errors.NewError("disk full"))

		err := s.StoreBlockIndex(ctx, entry(1, 0, 0))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStorageError))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown engine", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)

		_, err = newWithDB(ulogger.TestLogger{}, usql.Wrap(db, "mysql"), util.SQLEngine("mysql"))
		require.Error(t, err)
	})
}
