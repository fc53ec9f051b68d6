// Package factory creates the coins view named by the utxostore setting.
//
// Supported schemes:
//   - memory: "memory:///utxo"
//
// Adding the query parameter logging=true wraps the store in a logger that records every call.
package factory

import (
	"net/url"

	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/settings"
	"github.com/idc-chain/idcnode/stores/utxo"
	utxologger "github.com/idc-chain/idcnode/stores/utxo/logger"
	"github.com/idc-chain/idcnode/stores/utxo/memory"
	"github.com/idc-chain/idcnode/ulogger"
)

var availableDatabases = map[string]func(logger ulogger.Logger, storeURL *url.URL) (utxo.Store, error){
	"memory": func(logger ulogger.Logger, _ *url.URL) (utxo.Store, error) {
		return memory.New(logger), nil
	},
}

// NewStore returns the store configured in tSettings. source names the caller in log lines.
func NewStore(logger ulogger.Logger, tSettings *settings.Settings, source string) (utxo.Store, error) {
	storeURL := tSettings.UtxoStore.StoreURL
	if storeURL == nil {
		return nil, errors.NewConfigurationError("no utxostore setting found")
	}

	dbInit, ok := availableDatabases[storeURL.Scheme]
	if !ok {
		return nil, errors.NewProcessingError("unknown scheme: %s", storeURL.Scheme)
	}

	logger.Infof("[UTXOStore] creating %s store for %s", storeURL.Scheme, source)

	store, err := dbInit(logger, storeURL)
	if err != nil {
		return nil, err
	}

	if storeURL.Query().Get("logging") == "true" {
		logger.Infof("[UTXOStore] logging enabled for %s", source)
		store = utxologger.New(logger, store)
	}

	return store, nil
}
