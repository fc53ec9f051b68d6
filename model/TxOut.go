package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/idc-chain/idcnode/errors"
)

// DefaultRounds is the anonymization rounds value of an output that was never mixed.
const DefaultRounds = -10

// TxOut locks Value to ScriptPubKey. Rounds is advisory bookkeeping and is neither
// serialized nor part of any hash.
type TxOut struct {
	Value        Amount
	ScriptPubKey bscript.Script
	Rounds       int
}

// NewTxOut returns an output paying value to script.
func NewTxOut(value Amount, script []byte) TxOut {
	return TxOut{
		Value:        value,
		ScriptPubKey: cloneBytes(script),
		Rounds:       DefaultRounds,
	}
}

// SetNull marks the output as spent or absent.
func (out *TxOut) SetNull() {
	out.Value = -1
	out.ScriptPubKey = nil
	out.Rounds = DefaultRounds
}

func (out *TxOut) IsNull() bool {
	return out.Value == -1
}

// IsEmpty reports whether the output carries no value and no script.
func (out *TxOut) IsEmpty() bool {
	return out.Value == 0 && len(out.ScriptPubKey) == 0
}

// IsUnspendable reports whether the output can never be spent and so never becomes a coin:
// empty outputs, null data and scripts over MaxScriptSize.
func (out *TxOut) IsUnspendable() bool {
	if out.IsEmpty() || len(out.ScriptPubKey) > MaxScriptSize {
		return true
	}

	return len(out.ScriptPubKey) > 0 && out.ScriptPubKey[0] == bscript.OpRETURN
}

// Clone returns a deep copy of the output.
func (out *TxOut) Clone() TxOut {
	return TxOut{
		Value:        out.Value,
		ScriptPubKey: cloneBytes(out.ScriptPubKey),
		Rounds:       out.Rounds,
	}
}

// Bytes returns the wire encoding of the output: value then var-length script.
func (out *TxOut) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, out.serializeSize()))
	_ = out.serialize(buf)

	return buf.Bytes()
}

// Hash returns the double SHA-256 of the serialized output. It is computed on every call.
func (out *TxOut) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(out.Bytes())
}

// GetKeyIDFromUTXO returns the key that can spend (or, for cold staking, stake) the output.
// Only pay-to-pubkey, pay-to-pubkey-hash and pay-to-cold-staking scripts yield a key.
func (out *TxOut) GetKeyIDFromUTXO() (KeyID, bool) {
	if len(out.ScriptPubKey) == 0 {
		return KeyID{}, false
	}

	whichType, solutions := Solver(out.ScriptPubKey)

	switch whichType {
	case TxPubKey:
		return KeyIDFromPubKey(solutions[0]), true
	case TxPubKeyHash, TxColdStake:
		id, err := NewKeyIDFromBytes(solutions[0])
		return id, err == nil
	}

	return KeyID{}, false
}

// IsPayToColdStaking reports whether the output is locked by a cold staking script.
func (out *TxOut) IsPayToColdStaking() bool {
	return IsPayToColdStaking(out.ScriptPubKey)
}

func (out *TxOut) String() string {
	scriptHex := hex.EncodeToString(out.ScriptPubKey)
	if len(scriptHex) > 30 {
		scriptHex = scriptHex[:30]
	}

	return fmt.Sprintf("CTxOut(nValue=%d.%06d, scriptPubKey=%s)", out.Value/COIN, out.Value%COIN, scriptHex)
}

func (out *TxOut) serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int64(out.Value)); err != nil {
		return err
	}

	return wire.WriteVarBytes(w, 0, out.ScriptPubKey)
}

func (out *TxOut) serializeSize() int {
	return 8 + wire.VarIntSerializeSize(uint64(len(out.ScriptPubKey))) + len(out.ScriptPubKey)
}

func readTxOut(r io.Reader) (TxOut, error) {
	out := TxOut{Rounds: DefaultRounds}

	var value int64
	if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
		return out, errors.NewTxParseError("failed to read output value", err)
	}

	out.Value = Amount(value)

	script, err := wire.ReadVarBytes(r, 0, MaxScriptSize, "scriptPubKey")
	if err != nil {
		return out, errors.NewTxParseError("failed to read scriptPubKey", err)
	}

	out.ScriptPubKey = script

	return out, nil
}
