// Package sql implements blockindex.Store on postgres, sqlite and in-memory sqlite.
package sql

import (
	"net/url"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/settings"
	"github.com/idc-chain/idcnode/ulogger"
	"github.com/idc-chain/idcnode/util"
	"github.com/idc-chain/idcnode/util/usql"
	"github.com/jellydator/ttlcache/v3"
)

const indexCacheTTL = 10 * time.Minute

type SQL struct {
	db     *usql.DB
	engine util.SQLEngine
	logger ulogger.Logger
	// entries are immutable once stored, so cached reads by hash never go stale
	indexCache *ttlcache.Cache[chainhash.Hash, *model.BlockIndex]
}

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*SQL, error) {
	logger = logger.New("bisql")

	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageError("failed to init sql db", err)
	}

	return newWithDB(logger, db, util.SQLEngine(storeURL.Scheme))
}

func newWithDB(logger ulogger.Logger, db *usql.DB, engine util.SQLEngine) (*SQL, error) {
	switch engine {
	case util.Postgres:
		if err := createPostgresSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create postgres schema", err)
		}

	case util.Sqlite, util.SqliteMemory:
		if err := createSqliteSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create sqlite schema", err)
		}

	default:
		return nil, errors.NewStorageError("unknown database engine: %s", engine)
	}

	s := &SQL{
		db:     db,
		engine: engine,
		logger: logger,
		indexCache: ttlcache.New[chainhash.Hash, *model.BlockIndex](
			ttlcache.WithTTL[chainhash.Hash, *model.BlockIndex](indexCacheTTL),
		),
	}

	go s.indexCache.Start()

	return s, nil
}

func (s *SQL) GetDB() *usql.DB {
	return s.db
}

func (s *SQL) GetDBEngine() util.SQLEngine {
	return s.engine
}

func (s *SQL) Close() error {
	s.indexCache.Stop()

	return s.db.Close()
}

func createPostgresSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS block_index (
	    id              BIGSERIAL PRIMARY KEY
	    ,hash           BYTEA NOT NULL
	    ,prev_hash      BYTEA NOT NULL
	    ,height         BIGINT NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,n_bits         BIGINT NOT NULL
	    ,money_supply   BIGINT NOT NULL DEFAULT 0
	    ,inserted_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create block_index table", err)
	}

	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_block_index_hash ON block_index (hash);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create ux_block_index_hash index", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_block_index_height_id ON block_index (height DESC, id ASC);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_block_index_height_id index", err)
	}

	return nil
}

func createSqliteSchema(db *usql.DB) error {
	if _, err := db.Exec(`
      CREATE TABLE IF NOT EXISTS block_index (
	    id              INTEGER PRIMARY KEY AUTOINCREMENT
	    ,hash           BLOB NOT NULL
	    ,prev_hash      BLOB NOT NULL
	    ,height         BIGINT NOT NULL
	    ,block_time     BIGINT NOT NULL
	    ,n_bits         BIGINT NOT NULL
	    ,money_supply   BIGINT NOT NULL DEFAULT 0
	    ,inserted_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	  );
	`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create block_index table", err)
	}

	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_block_index_hash ON block_index (hash);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create ux_block_index_hash index", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_block_index_height_id ON block_index (height DESC, id ASC);`); err != nil {
		_ = db.Close()
		return errors.NewStorageError("could not create idx_block_index_height_id index", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlockIndex(row rowScanner) (*model.BlockIndex, error) {
	var (
		hash, prevHash []byte
		bi             model.BlockIndex
		supply         int64
	)

	if err := row.Scan(&hash, &prevHash, &bi.Height, &bi.Time, &bi.Bits, &supply); err != nil {
		return nil, err
	}

	if len(hash) != chainhash.HashSize || len(prevHash) != chainhash.HashSize {
		return nil, errors.NewStorageError("invalid hash length in block_index row")
	}

	copy(bi.Hash[:], hash)
	copy(bi.PrevHash[:], prevHash)
	bi.MoneySupply = model.Amount(supply)

	return &bi, nil
}
