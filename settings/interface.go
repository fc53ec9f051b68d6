package settings

import (
	"net/url"
	"time"

	"github.com/idc-chain/idcnode/chaincfg"
)

type PolicySettings struct {
	// MinRelayTxFeePerK is the minimum fee rate, in subunits per 1000 bytes, for relay.
	MinRelayTxFeePerK int64
	MaxTxSize         int
	MaxScriptSigSize  int
}

type StakeSettings struct {
	// SplitThreshold is the value above which a coinstake output is split. Zero disables splitting.
	SplitThreshold  int64
	MaxSplitOutputs int
	OnlyP2PK        bool
	SeenCacheTTL    time.Duration
}

type BlockIndexSettings struct {
	StoreURL *url.URL
}

type UtxoStoreSettings struct {
	// StoreURL selects the coins view backend; logging=true wraps it in a call logger.
	StoreURL *url.URL
}

type PostgresSettings struct {
	MaxIdleConns int
	MaxOpenConns int
}

type ValidatorSettings struct {
	BlockConcurrency int
	VerboseDebug     bool
}

type Settings struct {
	ClientName     string
	DataFolder     string
	LogLevel       string
	ChainCfgParams *chaincfg.Params
	Policy         *PolicySettings
	Stake          StakeSettings
	BlockIndex     BlockIndexSettings
	UtxoStore      UtxoStoreSettings
	Postgres       PostgresSettings
	Validator      ValidatorSettings
}
