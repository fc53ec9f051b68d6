package settings

import (
	"time"

	"github.com/idc-chain/idcnode/chaincfg"
)

func NewSettings() *Settings {
	params, err := chaincfg.GetChainParams(getString("network", "mainnet"))
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:     getString("clientName", "idcnode"),
		DataFolder:     getString("dataFolder", "data"),
		LogLevel:       getString("logLevel", "INFO"),
		ChainCfgParams: params,
		Policy: &PolicySettings{
			MinRelayTxFeePerK: int64(getInt("policy_minRelayTxFeePerK", 10_000)), // 0.01 per kB
			MaxTxSize:         getInt("policy_maxTxSize", 100_000),
			MaxScriptSigSize:  getInt("policy_maxScriptSigSize", 1650),
		},
		Stake: StakeSettings{
			SplitThreshold:  int64(getInt("stake_splitThreshold", 0)),
			MaxSplitOutputs: getInt("stake_maxSplitOutputs", 48),
			OnlyP2PK:        getBool("stake_onlyP2PK", false),
			SeenCacheTTL:    time.Duration(getInt("stake_seenCacheTTLSeconds", 3600)) * time.Second,
		},
		BlockIndex: BlockIndexSettings{
			StoreURL: getURL("blockindex_store", "sqlitememory:///blockindex"),
		},
		UtxoStore: UtxoStoreSettings{
			StoreURL: getURL("utxostore", "memory:///utxo"),
		},
		Postgres: PostgresSettings{
			MaxIdleConns: getInt("postgres_maxIdleConns", 10),
			MaxOpenConns: getInt("postgres_maxOpenConns", 80),
		},
		Validator: ValidatorSettings{
			BlockConcurrency: getInt("validator_blockConcurrency", 8),
			VerboseDebug:     getBool("validator_verbose_debug", false),
		},
	}
}
