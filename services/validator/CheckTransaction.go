package validator

import (
	"github.com/idc-chain/idcnode/chaincfg"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
)

const (
	// MaxBlockSize bounds a serialized block and any transparent transaction.
	MaxBlockSize = 2_000_000
	// MaxTxSizeAfterSapling bounds a serialized transaction of the sapling version.
	MaxTxSizeAfterSapling = 400_000

	minCoinbaseScriptSize = 2
	maxCoinbaseScriptSize = 150

	dosMax = 100
)

// CheckTransaction applies the context free consensus checks to tx. On failure the state
// holds the reject reason and the returned error the detail.
func CheckTransaction(tx *model.Transaction, params *chaincfg.Params, state *ValidationState) error {
	sapData := tx.SaplingData()
	hasShieldedSpends := sapData != nil && len(sapData.ShieldedSpends) > 0
	hasShieldedOutputs := sapData != nil && len(sapData.ShieldedOutputs) > 0

	if tx.InputCount() == 0 && !hasShieldedSpends {
		return state.Invalid("bad-txns-vin-empty", 10, errors.NewTxInvalidError("transaction %s has no inputs", tx.Hash()))
	}

	if tx.OutputCount() == 0 && !hasShieldedOutputs {
		return state.Invalid("bad-txns-vout-empty", 10, errors.NewTxInvalidError("transaction %s has no outputs", tx.Hash()))
	}

	if tx.Version() < model.TxVersionLegacy || tx.Version() >= model.TxVersionTooHigh {
		return state.Invalid("bad-txns-version", dosMax, errors.NewTxInvalidVersionError("transaction %s has version %d", tx.Hash(), tx.Version()))
	}

	if !tx.IsNormalType() && !tx.IsSaplingVersion() {
		return state.Invalid("bad-txns-type-version", dosMax, errors.NewTxInvalidVersionError("special transaction %s needs the sapling version", tx.Hash()))
	}

	maxSize := MaxBlockSize
	if tx.IsSaplingVersion() {
		maxSize = MaxTxSizeAfterSapling
	}

	if tx.GetTotalSize() > maxSize {
		return state.Invalid("bad-txns-oversize", dosMax, errors.NewTxInvalidError("transaction %s is %d bytes, limit %d", tx.Hash(), tx.GetTotalSize(), maxSize))
	}

	maxMoney := model.Amount(params.MaxMoneyOut)

	var total model.Amount

	for i, out := range tx.Outputs() {
		if out.Value < 0 {
			return state.Invalid("bad-txns-vout-negative", dosMax, errors.NewTxValueOutOfRangeError("output %d of %s is negative", i, tx.Hash()))
		}

		if out.Value > maxMoney {
			return state.Invalid("bad-txns-vout-toolarge", dosMax, errors.NewTxValueOutOfRangeError("output %d of %s is above the money limit", i, tx.Hash()))
		}

		total += out.Value
		if !model.MoneyRange(total, maxMoney) {
			return state.Invalid("bad-txns-txouttotal-toolarge", dosMax, errors.NewTxValueOutOfRangeError("outputs of %s exceed the money limit", tx.Hash()))
		}
	}

	valueOut, err := tx.GetValueOut()
	if err != nil {
		if errors.Is(err, errors.ErrTxInvalidVersion) {
			return state.Invalid("bad-txns-invalid-version", dosMax, err)
		}

		return state.Invalid("bad-txns-txouttotal-toolarge", dosMax, err)
	}

	if !model.MoneyRange(valueOut, maxMoney) {
		return state.Invalid("bad-txns-txouttotal-toolarge", dosMax, errors.NewTxValueOutOfRangeError("value out of %s exceeds the money limit", tx.Hash()))
	}

	if sapData != nil {
		if sapData.ValueBalance > maxMoney || sapData.ValueBalance < -maxMoney {
			return state.Invalid("bad-txns-valuebalance-toolarge", dosMax, errors.NewTxValueOutOfRangeError("value balance of %s out of range", tx.Hash()))
		}
	}

	seen := make(map[model.OutPoint]struct{}, tx.InputCount())

	for _, in := range tx.Inputs() {
		if _, ok := seen[in.PrevOut]; ok {
			return state.Invalid("bad-txns-inputs-duplicate", dosMax, errors.NewTxInvalidError("duplicate input %s in %s", in.PrevOut.StringShort(), tx.Hash()))
		}

		seen[in.PrevOut] = struct{}{}
	}

	if tx.IsCoinBase() {
		scriptSig := tx.Input(0).ScriptSig
		if len(scriptSig) < minCoinbaseScriptSize || len(scriptSig) > maxCoinbaseScriptSize {
			return state.Invalid("bad-cb-length", dosMax, errors.NewTxInvalidError("coinbase script of %d bytes", len(scriptSig)))
		}

		if tx.HasSaplingData() {
			return state.Invalid("bad-cb-has-shielded", dosMax, errors.NewTxInvalidError("coinbase %s carries shielded data", tx.Hash()))
		}

		return nil
	}

	for _, in := range tx.Inputs() {
		if in.PrevOut.IsNull() {
			return state.Invalid("bad-txns-prevout-null", 10, errors.NewTxInvalidError("null prevout in %s", tx.Hash()))
		}
	}

	return nil
}
