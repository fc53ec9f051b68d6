package model

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
)

// Transaction is the immutable form of a transaction. The identity hash is computed once when
// the transaction is frozen from a MutableTransaction; the zero value has a zero hash.
//
// Accessors hand out copies so a Transaction can be shared between goroutines freely.
type Transaction struct {
	tx   MutableTransaction
	hash chainhash.Hash
	size int
}

// NewTransactionFromBytes decodes a transaction. Trailing bytes are an error.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	r := bytes.NewReader(b)

	tx, err := NewTransactionFromReader(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.NewTxParseError("%d trailing bytes after transaction", r.Len())
	}

	return tx, nil
}

// NewTransactionFromReader decodes a single transaction from r.
func NewTransactionFromReader(r io.Reader) (*Transaction, error) {
	var m MutableTransaction
	if err := m.ReadFrom(r); err != nil {
		return nil, err
	}

	return m.Freeze(), nil
}

// Mutable returns a builder holding a deep copy of the transaction.
func (tx *Transaction) Mutable() *MutableTransaction {
	m := tx.tx.clone()
	return &m
}

func (tx *Transaction) Hash() chainhash.Hash {
	return tx.hash
}

func (tx *Transaction) Version() TxVersion {
	return tx.tx.Version
}

func (tx *Transaction) Type() TxType {
	return tx.tx.Type
}

func (tx *Transaction) LockTime() uint32 {
	return tx.tx.LockTime
}

func (tx *Transaction) InputCount() int {
	return len(tx.tx.Vin)
}

func (tx *Transaction) OutputCount() int {
	return len(tx.tx.Vout)
}

// Input returns a copy of input i.
func (tx *Transaction) Input(i int) TxIn {
	return tx.tx.Vin[i].Clone()
}

// Output returns a copy of output i.
func (tx *Transaction) Output(i int) TxOut {
	return tx.tx.Vout[i].Clone()
}

// Inputs returns copies of all inputs in order.
func (tx *Transaction) Inputs() []TxIn {
	return tx.tx.clone().Vin
}

// Outputs returns copies of all outputs in order.
func (tx *Transaction) Outputs() []TxOut {
	return tx.tx.clone().Vout
}

// SaplingData returns a copy of the shielded data, or nil if the transaction has none.
func (tx *Transaction) SaplingData() *SaplingTxData {
	if tx.tx.SapData == nil {
		return nil
	}

	return tx.tx.SapData.clone()
}

// ExtraPayload returns a copy of the special transaction payload, or nil if absent.
func (tx *Transaction) ExtraPayload() []byte {
	return cloneBytes(tx.tx.ExtraPayload)
}

// Bytes returns the canonical wire encoding.
func (tx *Transaction) Bytes() []byte {
	return tx.tx.Bytes()
}

func (tx *Transaction) Serialize(w io.Writer) error {
	return tx.tx.Serialize(w)
}

// GetTotalSize returns the length of the wire encoding in bytes.
func (tx *Transaction) GetTotalSize() int {
	if tx.size == 0 {
		return tx.tx.serializeSize()
	}

	return tx.size
}

func (tx *Transaction) IsNormalType() bool {
	return tx.tx.Type == TxTypeNormal
}

func (tx *Transaction) IsSaplingVersion() bool {
	return tx.tx.isSaplingVersion()
}

// HasSaplingData reports whether shielded data is present and not empty.
func (tx *Transaction) HasSaplingData() bool {
	return tx.tx.SapData != nil && !tx.tx.SapData.IsEmpty()
}

// IsShieldedTx reports whether the transaction moves value through the shielded pool.
func (tx *Transaction) IsShieldedTx() bool {
	return tx.IsSaplingVersion() && tx.HasSaplingData()
}

func (tx *Transaction) HasExtraPayload() bool {
	return tx.tx.ExtraPayload != nil
}

// IsSpecialTx reports whether the transaction is a non-normal type carrying a payload.
func (tx *Transaction) IsSpecialTx() bool {
	return tx.IsSaplingVersion() && !tx.IsNormalType() && tx.HasExtraPayload()
}

// IsCoinBase reports whether the transaction generates new coins from a single null input.
func (tx *Transaction) IsCoinBase() bool {
	return len(tx.tx.Vin) == 1 && tx.tx.Vin[0].PrevOut.IsNull()
}

// IsCoinStake reports whether the transaction is a proof-of-stake coinstake: it spends a real
// output first and pays at least two outputs, the first being a zero-value marker.
func (tx *Transaction) IsCoinStake() bool {
	if len(tx.tx.Vin) == 0 {
		return false
	}

	if tx.tx.Vin[0].PrevOut.IsNull() {
		return false
	}

	return len(tx.tx.Vout) >= 2 && tx.tx.Vout[0].Value == 0
}

// HasP2CSOutputs reports whether any output is locked by a cold staking script.
func (tx *Transaction) HasP2CSOutputs() bool {
	for i := range tx.tx.Vout {
		if tx.tx.Vout[i].IsPayToColdStaking() {
			return true
		}
	}

	return false
}

// GetValueOut returns the total value leaving the transparent inputs: the sum of the outputs
// plus any value moved into the shielded pool. A negative output or a sum that overflows is an
// ERR_TX_VALUE_OUT_OF_RANGE error.
func (tx *Transaction) GetValueOut() (Amount, error) {
	var total Amount

	for i := range tx.tx.Vout {
		value := tx.tx.Vout[i].Value
		if value < 0 {
			return 0, errors.NewTxValueOutOfRangeError("output %d has negative value %d", i, value)
		}

		sum, ok := addAmounts(total, value)
		if !ok {
			return 0, errors.NewTxValueOutOfRangeError("value out overflows at output %d", i)
		}

		total = sum
	}

	if tx.HasSaplingData() && tx.tx.SapData.ValueBalance < 0 {
		if !tx.IsSaplingVersion() {
			return 0, errors.NewTxInvalidVersionError("shielded data on version %d transaction", tx.tx.Version)
		}

		// negating math.MinInt64 overflows
		balance := tx.tx.SapData.ValueBalance
		if balance == -balance {
			return 0, errors.NewTxValueOutOfRangeError("shielded value balance %d out of range", balance)
		}

		sum, ok := addAmounts(total, -balance)
		if !ok {
			return 0, errors.NewTxValueOutOfRangeError("value out overflows adding shielded value balance")
		}

		total = sum
	}

	return total, nil
}

// GetShieldedValueIn returns the value entering the transparent pool from the shielded pool,
// or zero when the balance is not positive.
func (tx *Transaction) GetShieldedValueIn() (Amount, error) {
	if !tx.HasSaplingData() || tx.tx.SapData.ValueBalance <= 0 {
		return 0, nil
	}

	if !tx.IsSaplingVersion() {
		return 0, errors.NewTxInvalidVersionError("shielded data on version %d transaction", tx.tx.Version)
	}

	return tx.tx.SapData.ValueBalance, nil
}

// CalculateModifiedSize returns the size used for priority: txSize (or the serialized size when
// txSize is 0) minus a per-input allowance for the spending overhead.
func (tx *Transaction) CalculateModifiedSize(txSize int) int {
	if txSize == 0 {
		txSize = tx.GetTotalSize()
	}

	for i := range tx.tx.Vin {
		offset := 41 + min(110, len(tx.tx.Vin[i].ScriptSig))
		if txSize > offset {
			txSize -= offset
		}
	}

	return txSize
}

// ComputePriority divides the age-weighted input value by the modified size.
func (tx *Transaction) ComputePriority(priorityInputs float64, txSize int) float64 {
	modifiedSize := tx.CalculateModifiedSize(txSize)
	if modifiedSize == 0 {
		return 0
	}

	return priorityInputs / float64(modifiedSize)
}

func (tx *Transaction) String() string {
	var sb strings.Builder

	h := tx.hash.String()

	sb.WriteString(fmt.Sprintf("CTransaction(hash=%s, ver=%d, type=%d, vin.size=%d, vout.size=%d, nLockTime=%d",
		h[:10], tx.tx.Version, tx.tx.Type, len(tx.tx.Vin), len(tx.tx.Vout), tx.tx.LockTime))

	if tx.IsShieldedTx() {
		sap := tx.tx.SapData
		sb.WriteString(fmt.Sprintf(", valueBalance=%d, vShieldedSpend.size=%d, vShieldedOutput.size=%d",
			sap.ValueBalance, len(sap.ShieldedSpends), len(sap.ShieldedOutputs)))
	}

	if tx.IsSpecialTx() {
		sb.WriteString(fmt.Sprintf(", extraPayload.size=%d", len(tx.tx.ExtraPayload)))
	}

	sb.WriteString(")\n")

	for i := range tx.tx.Vin {
		sb.WriteString("    " + tx.tx.Vin[i].String() + "\n")
	}

	for i := range tx.tx.Vout {
		sb.WriteString("    " + tx.tx.Vout[i].String() + "\n")
	}

	return sb.String()
}
