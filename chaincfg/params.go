package chaincfg

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
)

// coin is the number of subunits in one whole coin. It mirrors model.COIN, which cannot be
// imported here without a cycle.
const coin int64 = 1_000_000

// Upgrade identifies a network upgrade that switches consensus rules at an activation height.
type Upgrade int

const (
	UpgradePoS Upgrade = iota
	UpgradePoSV2
	UpgradeBIP65
	// UpgradeV3_4 activates the stake modifier v2 and the stake min depth rule.
	UpgradeV3_4
	UpgradeV4_0
	// UpgradeV5_0 activates sapling (shielded) transactions and P2PKH block signatures.
	UpgradeV5_0
	UpgradeV5_2

	upgradeCount
)

const (
	// AlwaysActive marks an upgrade active from genesis.
	AlwaysActive int32 = 0
	// NoActivationHeight marks an upgrade that never activates.
	NoActivationHeight int32 = -1
)

// Params defines a network by the consensus parameters the transaction and stake code consumes.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net is the message start magic for the network.
	Net uint32

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// GenesisHash is the hash of the first block in the chain.
	GenesisHash *chainhash.Hash

	// MaxMoneyOut is the largest amount, in subunits, any single value may carry.
	MaxMoneyOut int64

	// CoinbaseMaturity is the number of confirmations before a coinbase or coinstake can be spent.
	CoinbaseMaturity uint32

	// FutureTimeDriftPoS is how far in the future, in seconds, a PoS block time may be.
	FutureTimeDriftPoS int64

	// StakeMinAge is the minimum age in seconds of a stake input before the stake modifier v2.
	StakeMinAge uint32

	// StakeMinDepth is the minimum depth in blocks of a stake input after the stake modifier v2.
	StakeMinDepth int32

	// TargetSpacing is the target block interval in seconds.
	TargetSpacing int64

	// TimeSlotLength is the granularity, in seconds, of PoS block times.
	TimeSlotLength int64

	// UpgradeHeights holds the activation height of each Upgrade.
	UpgradeHeights [upgradeCount]int32
}

// IsUpgradeActive reports whether upgrade u is active at the given height.
func (p *Params) IsUpgradeActive(height int32, u Upgrade) bool {
	if u < 0 || u >= upgradeCount {
		return false
	}

	activation := p.UpgradeHeights[u]
	if activation == NoActivationHeight {
		return false
	}

	return height >= activation
}

// MoneyRange reports whether v is a valid amount on this network.
func (p *Params) MoneyRange(v int64) bool {
	return v >= 0 && v <= p.MaxMoneyOut
}

// HasStakeMinAgeOrDepth reports whether a coin created in the block at utxoFromHeight / utxoFromTime
// is mature enough to stake in a block at contextHeight / contextTime.
// Before the stake modifier v2 the rule is time based, afterwards it is depth based.
func (p *Params) HasStakeMinAgeOrDepth(contextHeight int32, contextTime uint32, utxoFromHeight int32, utxoFromTime uint32) bool {
	if !p.IsUpgradeActive(contextHeight, UpgradeV3_4) {
		return uint64(utxoFromTime)+uint64(p.StakeMinAge) <= uint64(contextTime)
	}

	return contextHeight-utxoFromHeight >= p.StakeMinDepth
}

// IsTimeProtocolV2 reports whether PoS block times are constrained to time slots at height.
func (p *Params) IsTimeProtocolV2(height int32) bool {
	return p.IsUpgradeActive(height, UpgradeV4_0)
}

// IsValidBlockTimeStamp reports whether a PoS block time falls on a time slot boundary.
func (p *Params) IsValidBlockTimeStamp(blockTime int64, height int32) bool {
	if !p.IsTimeProtocolV2(height) {
		return true
	}

	return blockTime%p.TimeSlotLength == 0
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:               "mainnet",
	Net:                0xb2d37d3a,
	DefaultPort:        "17151",
	GenesisHash:        newHashFromStr("000005eac93c81de45dd620c8cd7d82aeeee8ff9e2c9b83da40ffd52e644d6f3"),
	MaxMoneyOut:        100_000_000_000 * coin,
	CoinbaseMaturity:   60,
	FutureTimeDriftPoS: 180,
	StakeMinAge:        60 * 60,
	StakeMinDepth:      60,
	TargetSpacing:      2 * 60,
	TimeSlotLength:     15,
	UpgradeHeights: [upgradeCount]int32{
		UpgradePoS:   1001,
		UpgradePoSV2: 1,
		UpgradeBIP65: 1200,
		UpgradeV3_4:  1001,
		UpgradeV4_0:  1050,
		UpgradeV5_0:  1300,
		UpgradeV5_2:  1300,
	},
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:               "testnet",
	Net:                0x5ac3e1a4,
	DefaultPort:        "11012",
	GenesisHash:        newHashFromStr("0000041e482b9b9691d98eefb48473405c0b8ec31b76df3797c74a78680ef818"),
	MaxMoneyOut:        20_000_000 * coin,
	CoinbaseMaturity:   60,
	FutureTimeDriftPoS: 180,
	StakeMinAge:        60 * 60,
	StakeMinDepth:      60,
	TargetSpacing:      2 * 60,
	TimeSlotLength:     15,
	UpgradeHeights: [upgradeCount]int32{
		UpgradePoS:   1001,
		UpgradePoSV2: 1,
		UpgradeBIP65: 1300,
		UpgradeV3_4:  1001,
		UpgradeV4_0:  1100,
		UpgradeV5_0:  1300,
		UpgradeV5_2:  1300,
	},
}

// RegressionNetParams defines the network parameters for the regression test network.
var RegressionNetParams = Params{
	Name:               "regtest",
	Net:                0xac7ecfa1,
	DefaultPort:        "51476",
	GenesisHash:        newHashFromStr("0000041e482b9b9691d98eefb48473405c0b8ec31b76df3797c74a78680ef818"),
	MaxMoneyOut:        43_199_500 * coin,
	CoinbaseMaturity:   100,
	FutureTimeDriftPoS: 180,
	StakeMinAge:        0,
	StakeMinDepth:      2,
	TargetSpacing:      60,
	TimeSlotLength:     15,
	UpgradeHeights: [upgradeCount]int32{
		UpgradePoS:   251,
		UpgradePoSV2: 251,
		UpgradeBIP65: AlwaysActive,
		UpgradeV3_4:  251,
		UpgradeV4_0:  AlwaysActive,
		UpgradeV5_0:  300,
		UpgradeV5_2:  300,
	},
}

// newHashFromStr converts the passed big-endian hex string into a chainhash.Hash.
// It panics on error since it is only called with hard-coded hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}

	return hash
}

func GetChainParams(network string) (*Params, error) {
	switch network {
	case "mainnet", "main":
		return &MainNetParams, nil
	case "testnet", "test":
		return &TestNetParams, nil
	case "regtest":
		return &RegressionNetParams, nil
	default:
		return nil, errors.NewConfigurationError("unknown network %s", network)
	}
}
