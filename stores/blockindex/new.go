package blockindex

import (
	"net/url"

	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/settings"
	"github.com/idc-chain/idcnode/stores/blockindex/memory"
	"github.com/idc-chain/idcnode/stores/blockindex/sql"
	"github.com/idc-chain/idcnode/ulogger"
)

// NewStore returns the store named by storeURL: memory, or one of the sql schemes.
func NewStore(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (Store, error) {
	switch storeURL.Scheme {
	case "memory":
		return memory.New(logger), nil
	case "postgres":
		fallthrough
	case "sqlitememory":
		fallthrough
	case "sqlite":
		return sql.New(logger, storeURL, tSettings)
	}

	return nil, errors.NewStorageError("unknown scheme: %s", storeURL.Scheme)
}
