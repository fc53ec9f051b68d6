// Package validator applies the consensus checks to transactions and blocks and connects
// accepted blocks to the chain, coin and money supply state.
package validator

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/idc-chain/idcnode/blocksignature"
	"github.com/idc-chain/idcnode/chaincfg"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/settings"
	"github.com/idc-chain/idcnode/stakeinput"
	"github.com/idc-chain/idcnode/stores/blockindex"
	"github.com/idc-chain/idcnode/stores/utxo"
	"github.com/idc-chain/idcnode/ulogger"
	"github.com/idc-chain/idcnode/util"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"
)

// dustSpendSize is the assumed size of the input that will later spend an output.
const dustSpendSize = 148

type Validator struct {
	logger      ulogger.Logger
	settings    *settings.Settings
	params      *chaincfg.Params
	chain       blockindex.Store
	coins       utxo.Store
	moneySupply *model.MoneySupply
	verifier    *blocksignature.Verifier
	options     *Options
	// seenStakes maps a stake uniqueness to the block that staked it
	seenStakes   *ttlcache.Cache[string, chainhash.Hash]
	seenStakesMu sync.Mutex
}

func New(logger ulogger.Logger, tSettings *settings.Settings, chain blockindex.Store, coins utxo.Store,
	moneySupply *model.MoneySupply, opts ...Option) *Validator {
	initPrometheusMetrics()

	v := &Validator{
		logger:      logger,
		settings:    tSettings,
		params:      tSettings.ChainCfgParams,
		chain:       chain,
		coins:       coins,
		moneySupply: moneySupply,
		verifier:    blocksignature.NewVerifier(logger),
		options:     ProcessOptions(opts...),
		seenStakes: ttlcache.New[string, chainhash.Hash](
			ttlcache.WithTTL[string, chainhash.Hash](tSettings.Stake.SeenCacheTTL),
		),
	}

	go v.seenStakes.Start()

	return v
}

func (v *Validator) Stop() {
	v.seenStakes.Stop()
}

// ValidateTransaction runs CheckTransaction followed by the relay policy: size, scriptSig
// size and dust outputs.
func (v *Validator) ValidateTransaction(tx *model.Transaction, state *ValidationState) error {
	start := time.Now()
	defer func() {
		prometheusValidateTransaction.Observe(time.Since(start).Seconds())
	}()

	if err := CheckTransaction(tx, v.params, state); err != nil {
		prometheusInvalidTransactions.Inc()
		return err
	}

	policy := v.settings.Policy

	if tx.GetTotalSize() > policy.MaxTxSize {
		prometheusInvalidTransactions.Inc()
		return state.Invalid("tx-size", 0, errors.NewTxInvalidError("transaction %s is %d bytes, policy limit %d", tx.Hash(), tx.GetTotalSize(), policy.MaxTxSize))
	}

	for i, in := range tx.Inputs() {
		if len(in.ScriptSig) > policy.MaxScriptSigSize {
			prometheusInvalidTransactions.Inc()
			return state.Invalid("scriptsig-size", 0, errors.NewTxInvalidError("input %d of %s has a %d byte scriptSig", i, tx.Hash(), len(in.ScriptSig)))
		}
	}

	if !tx.IsCoinBase() && !tx.IsCoinStake() {
		dustRelayFee := model.NewFeeRateFromPerK(model.Amount(policy.MinRelayTxFeePerK))

		for i, out := range tx.Outputs() {
			if isDust(out, dustRelayFee) {
				prometheusInvalidTransactions.Inc()
				return state.Invalid("dust", 0, errors.NewTxInvalidError("output %d of %s is dust", i, tx.Hash()))
			}
		}
	}

	prometheusValidatedTransactions.Inc()

	return nil
}

func isDust(out model.TxOut, dustRelayFee model.FeeRate) bool {
	if whichType, _ := model.Solver(out.ScriptPubKey); whichType == model.TxNullData {
		return false
	}

	return out.Value < 3*dustRelayFee.GetFee(len(out.Bytes())+dustSpendSize)
}

// ValidateBlock checks block as the block at height: structure, merkle root, every
// transaction, the block signature and, for proof-of-stake blocks, the stake input.
func (v *Validator) ValidateBlock(ctx context.Context, block *model.Block, height int32, state *ValidationState) error {
	start, stat, ctx := util.StartStatFromContext(ctx, "ValidateBlock")
	defer func() {
		stat.AddTime(start)
		prometheusValidateBlock.Observe(time.Since(start).Seconds())
	}()

	err := v.validateBlock(ctx, block, height, state)
	if err != nil && state.IsInvalid() {
		prometheusInvalidBlocks.WithLabelValues(state.GetRejectReason()).Inc()
		v.logger.Warnf("[Validator] block %s at height %d rejected: %s", block.Hash(), height, state)
	}

	return err
}

func (v *Validator) validateBlock(ctx context.Context, block *model.Block, height int32, state *ValidationState) error {
	blockHash := block.Hash()

	if len(block.Txs) == 0 {
		return state.Invalid("bad-blk-length", dosMax, errors.NewBlockInvalidError("block %s has no transactions", blockHash))
	}

	if block.BuildMerkleRoot() != block.Header.HashMerkleRoot {
		return state.Invalid("bad-txnmrklroot", dosMax, errors.NewBlockInvalidError("merkle root mismatch in block %s", blockHash))
	}

	if !block.Txs[0].IsCoinBase() {
		return state.Invalid("bad-cb-missing", dosMax, errors.NewBlockInvalidError("first transaction of %s is not a coinbase", blockHash))
	}

	for i := 1; i < len(block.Txs); i++ {
		if block.Txs[i].IsCoinBase() {
			return state.Invalid("bad-cb-multiple", dosMax, errors.NewBlockInvalidError("more than one coinbase in %s", blockHash))
		}
	}

	isPoS := block.IsProofOfStake()
	posActive := v.params.IsUpgradeActive(height, chaincfg.UpgradePoS)

	switch {
	case isPoS && !posActive:
		return state.Invalid("PoS-early", dosMax, errors.NewBlockInvalidError("proof-of-stake block %s before activation", blockHash))
	case !isPoS && posActive:
		return state.Invalid("PoW-ended", dosMax, errors.NewBlockInvalidError("proof-of-work block %s after proof-of-stake activation", blockHash))
	}

	if isPoS {
		if err := v.checkProofOfStakeStructure(block, height, state); err != nil {
			return err
		}
	}

	if err := v.checkTransactions(ctx, block, state); err != nil {
		return err
	}

	if !v.options.skipBlockSignature {
		if err := v.verifier.CheckBlockSignature(block); err != nil {
			prometheusBlockSignatureFailed.Inc()
			return state.Invalid("bad-blk-signature", dosMax, err)
		}
	}

	if isPoS {
		return v.checkStake(ctx, block, height, state)
	}

	return nil
}

func (v *Validator) checkProofOfStakeStructure(block *model.Block, height int32, state *ValidationState) error {
	blockHash := block.Hash()

	if !v.params.IsValidBlockTimeStamp(int64(block.Header.Time), height) {
		return state.Invalid("invalid-time-mask", dosMax, errors.NewBlockInvalidError("block %s time %d is not on a time slot", blockHash, block.Header.Time))
	}

	coinbase := block.Txs[0]
	if coinbase.OutputCount() != 1 {
		return state.Invalid("bad-cb-pos", dosMax, errors.NewBlockInvalidError("coinbase of proof-of-stake block %s must have one empty output", blockHash))
	}

	if out := coinbase.Output(0); !out.IsEmpty() {
		return state.Invalid("bad-cb-pos", dosMax, errors.NewBlockInvalidError("coinbase of proof-of-stake block %s must have one empty output", blockHash))
	}

	for i := 2; i < len(block.Txs); i++ {
		if block.Txs[i].IsCoinStake() {
			return state.Invalid("bad-cs-multiple", dosMax, errors.NewBlockInvalidError("more than one coinstake in %s", blockHash))
		}
	}

	return nil
}

// checkTransactions runs CheckTransaction over the block in parallel. The reported failure
// is the one with the lowest index, whatever order the checks finish in.
func (v *Validator) checkTransactions(ctx context.Context, block *model.Block, state *ValidationState) error {
	states := make([]ValidationState, len(block.Txs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, v.settings.Validator.BlockConcurrency))

	for i, tx := range block.Txs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return errors.NewContextCanceledError("transaction checks canceled", err)
			}

			if err := CheckTransaction(tx, v.params, &states[i]); err != nil {
				prometheusInvalidTransactions.Inc()

				if v.settings.Validator.VerboseDebug {
					v.logger.Debugf("[Validator] transaction %d (%s) invalid: %v", i, tx.Hash(), err)
				}

				return nil
			}

			prometheusValidatedTransactions.Inc()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return state.Error("validation-canceled", err)
	}

	for i := range states {
		if states[i].IsInvalid() {
			*state = states[i]
			return state.Err()
		}
	}

	return nil
}

func (v *Validator) checkStake(ctx context.Context, block *model.Block, height int32, state *ValidationState) error {
	coinStake := block.Txs[1]
	txIn := coinStake.Input(0)

	stake, err := stakeinput.NewIdcStakeFromTxIn(ctx, v.logger, v.params, txIn, v.coins, v.coins, v.chain)
	if err != nil {
		return state.Invalid("bad-stake-input", dosMax, err)
	}

	if err = stake.InitFromTxIn(txIn); err != nil {
		return state.Invalid("bad-stake-input", dosMax, err)
	}

	if err = stake.ContextCheck(height, block.Header.Time); err != nil {
		return state.Invalid("bad-stake-min-age", dosMax, err)
	}

	if v.options.skipDuplicateStakes {
		return nil
	}

	blockHash := block.Hash()
	uniqueness := hex.EncodeToString(stake.GetUniqueness())

	v.seenStakesMu.Lock()
	defer v.seenStakesMu.Unlock()

	if item := v.seenStakes.Get(uniqueness); item != nil && item.Value() != blockHash {
		prometheusDuplicateStakes.Inc()

		return state.Invalid("bad-stake-duplicate", dosMax,
			errors.NewStakeDuplicateError("stake %s already used by block %s", txIn.PrevOut.StringShort(), item.Value()))
	}

	v.seenStakes.Set(uniqueness, blockHash, ttlcache.DefaultTTL)

	return nil
}

// ConnectBlock validates block and applies it: inputs are spent, spendable outputs added as
// coins, the money supply recomputed and the block index stored. Inputs are checked before
// anything is written, so a rejected block leaves the stores untouched.
func (v *Validator) ConnectBlock(ctx context.Context, block *model.Block, height int32, state *ValidationState) error {
	start, stat, ctx := util.StartStatFromContext(ctx, "ConnectBlock")
	defer func() {
		stat.AddTime(start)
		prometheusConnectBlock.Observe(time.Since(start).Seconds())
	}()

	if err := v.checkParent(ctx, block, height, state); err != nil {
		return err
	}

	if err := v.ValidateBlock(ctx, block, height, state); err != nil {
		return err
	}

	if err := v.checkInputs(ctx, block, height, state); err != nil {
		return err
	}

	blockHash := block.Hash()

	for _, tx := range block.Txs {
		if !tx.IsCoinBase() {
			for _, in := range tx.Inputs() {
				if _, err := v.coins.SpendCoin(ctx, in.PrevOut); err != nil {
					return state.Error("spend-failed", errors.NewProcessingError("failed to spend %s", in.PrevOut.StringShort(), err))
				}
			}
		}

		if err := v.coins.AddTransaction(ctx, tx, height, blockHash); err != nil {
			return state.Error("add-tx-failed", errors.NewProcessingError("failed to add transaction %s", tx.Hash(), err))
		}
	}

	supply, err := v.UpdateMoneySupply(ctx, height)
	if err != nil {
		return state.Error("money-supply-failed", err)
	}

	bi := model.NewBlockIndex(block.Header, height)
	bi.MoneySupply = supply

	if err = v.chain.StoreBlockIndex(ctx, bi); err != nil {
		return state.Error("store-block-index-failed", err)
	}

	v.logger.Infof("[Validator] connected %s", bi)

	return nil
}

func (v *Validator) checkParent(ctx context.Context, block *model.Block, height int32, state *ValidationState) error {
	if height == 0 {
		return nil
	}

	parent, err := v.chain.GetBlockIndex(ctx, block.Header.HashPrevBlock)
	if err != nil {
		if errors.Is(err, errors.ErrBlockNotFound) {
			return state.Invalid("bad-prevblk", 0, errors.NewBlockInvalidError("previous block %s unknown", block.Header.HashPrevBlock, err))
		}

		return state.Error("block-index-lookup-failed", err)
	}

	if parent.Height+1 != height {
		return state.Invalid("bad-prevblk", dosMax, errors.NewBlockInvalidError("block at height %d on parent at height %d", height, parent.Height))
	}

	return nil
}

// checkInputs makes sure every input spends an unspent coin or a spendable output created
// earlier in the block, that no output is spent twice, that coinbase and coinstake coins are
// mature and that no transaction other than the coinbase or coinstake creates value.
func (v *Validator) checkInputs(ctx context.Context, block *model.Block, height int32, state *ValidationState) error {
	created := make(map[model.OutPoint]*model.Coin)
	spent := make(map[model.OutPoint]struct{})
	maxMoney := model.Amount(v.params.MaxMoneyOut)

	for _, tx := range block.Txs {
		if !tx.IsCoinBase() {
			var valueIn model.Amount

			for _, in := range tx.Inputs() {
				if _, ok := spent[in.PrevOut]; ok {
					return state.Invalid("bad-txns-inputs-missingorspent", dosMax, errors.NewTxInvalidError("%s spent twice in block", in.PrevOut.StringShort()))
				}

				spent[in.PrevOut] = struct{}{}

				coin, err := v.lookupCoin(ctx, created, in.PrevOut)
				if err != nil && !errors.Is(err, errors.ErrTxNotFound) {
					return state.Error("coin-lookup-failed", err)
				}

				if err != nil || coin.IsSpent() {
					return state.Invalid("bad-txns-inputs-missingorspent", dosMax, errors.NewTxInvalidError("input %s missing or spent", in.PrevOut.StringShort()))
				}

				if (coin.IsCoinBase || coin.IsCoinStake) && int64(height)-int64(coin.Height) < int64(v.params.CoinbaseMaturity) {
					return state.Invalid("bad-txns-premature-spend-of-coinbase", 0,
						errors.NewTxInvalidError("%s spends coin %s from height %d at height %d", tx.Hash(), in.PrevOut.StringShort(), coin.Height, height))
				}

				if !model.MoneyRange(coin.Out.Value, maxMoney) {
					return state.Invalid("bad-txns-inputvalues-outofrange", dosMax,
						errors.NewTxValueOutOfRangeError("input %s value %d out of range", in.PrevOut.StringShort(), coin.Out.Value))
				}

				valueIn += coin.Out.Value
				if !model.MoneyRange(valueIn, maxMoney) {
					return state.Invalid("bad-txns-inputvalues-outofrange", dosMax,
						errors.NewTxValueOutOfRangeError("input values of %s out of range", tx.Hash()))
				}
			}

			if !tx.IsCoinStake() {
				if err := checkValueIn(tx, valueIn, maxMoney, state); err != nil {
					return err
				}
			}
		}

		hash := tx.Hash()
		for i := 0; i < tx.OutputCount(); i++ {
			out := tx.Output(i)
			if out.IsUnspendable() {
				continue
			}

			n, err := safeconversion.IntToUint32(i)
			if err != nil {
				return state.Error("output-index-overflow", errors.NewProcessingError("output index %d of %s", i, hash, err))
			}

			created[model.NewOutPoint(hash, n)] = model.NewCoin(tx, i, height)
		}
	}

	return nil
}

func (v *Validator) lookupCoin(ctx context.Context, created map[model.OutPoint]*model.Coin, outpoint model.OutPoint) (*model.Coin, error) {
	if coin, ok := created[outpoint]; ok {
		return coin, nil
	}

	return v.coins.GetCoin(ctx, outpoint)
}

// checkValueIn rejects tx when its transparent and shielded inputs do not cover its outputs.
func checkValueIn(tx *model.Transaction, valueIn model.Amount, maxMoney model.Amount, state *ValidationState) error {
	shieldedIn, err := tx.GetShieldedValueIn()
	if err != nil {
		return state.Invalid("bad-txns-invalid-version", dosMax, err)
	}

	valueOut, err := tx.GetValueOut()
	if err != nil {
		return state.Invalid("bad-txns-txouttotal-toolarge", dosMax, err)
	}

	valueIn += shieldedIn
	if !model.MoneyRange(valueIn, maxMoney) {
		return state.Invalid("bad-txns-inputvalues-outofrange", dosMax,
			errors.NewTxValueOutOfRangeError("input values of %s out of range", tx.Hash()))
	}

	if valueIn < valueOut {
		return state.Invalid("bad-txns-in-belowout", dosMax,
			errors.NewTxInvalidError("%s value in (%s) < value out (%s)", tx.Hash(), valueIn, valueOut))
	}

	return nil
}

// UpdateMoneySupply recomputes the transparent supply from the coins view and caches it as
// the supply at height.
func (v *Validator) UpdateMoneySupply(ctx context.Context, height int32) (model.Amount, error) {
	var (
		total    model.Amount
		rangeErr error
	)

	maxMoney := model.Amount(v.params.MaxMoneyOut)

	err := v.coins.ForEach(ctx, func(outpoint model.OutPoint, coin *model.Coin) bool {
		total += coin.Out.Value
		if !model.MoneyRange(total, maxMoney) {
			rangeErr = errors.NewTxValueOutOfRangeError("money supply out of range at %s", outpoint.StringShort())
			return false
		}

		return true
	})
	if err != nil {
		return 0, errors.NewProcessingError("failed to walk the coins view", err)
	}

	if rangeErr != nil {
		return 0, rangeErr
	}

	v.moneySupply.Update(total, int64(height))
	prometheusMoneySupply.Set(float64(total))

	return total, nil
}
