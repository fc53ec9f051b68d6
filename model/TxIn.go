package model

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-wire"
	"github.com/idc-chain/idcnode/errors"
)

// SequenceFinal is the default sequence number, disabling relative lock time.
const SequenceFinal uint32 = 0xffffffff

// TxIn spends the output referenced by PrevOut. ScriptSig is the unlocking script.
type TxIn struct {
	PrevOut   OutPoint
	ScriptSig bscript.Script
	Sequence  uint32
}

// NewTxIn returns an input spending prevOut with a final sequence number.
func NewTxIn(prevOut OutPoint, scriptSig []byte) TxIn {
	return TxIn{
		PrevOut:   prevOut,
		ScriptSig: cloneBytes(scriptSig),
		Sequence:  SequenceFinal,
	}
}

// IsFinal reports whether the input opts out of relative lock time.
func (in *TxIn) IsFinal() bool {
	return in.Sequence == SequenceFinal
}

// Clone returns a deep copy of the input.
func (in *TxIn) Clone() TxIn {
	return TxIn{
		PrevOut:   in.PrevOut,
		ScriptSig: cloneBytes(in.ScriptSig),
		Sequence:  in.Sequence,
	}
}

func (in *TxIn) String() string {
	var sb strings.Builder

	sb.WriteString("CTxIn(")
	sb.WriteString(in.PrevOut.String())

	scriptHex := hex.EncodeToString(in.ScriptSig)
	if in.PrevOut.IsNull() {
		sb.WriteString(", coinbase " + scriptHex)
	} else {
		if len(scriptHex) > 24 {
			scriptHex = scriptHex[:24]
		}

		sb.WriteString(", scriptSig=" + scriptHex)
	}

	if in.Sequence != SequenceFinal {
		sb.WriteString(fmt.Sprintf(", nSequence=%d", in.Sequence))
	}

	sb.WriteString(")")

	return sb.String()
}

func (in *TxIn) serialize(w io.Writer) error {
	if _, err := w.Write(in.PrevOut.Hash[:]); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, in.PrevOut.N); err != nil {
		return err
	}

	if err := wire.WriteVarBytes(w, 0, in.ScriptSig); err != nil {
		return err
	}

	return binary.Write(w, binary.LittleEndian, in.Sequence)
}

func (in *TxIn) serializeSize() int {
	return 32 + 4 + wire.VarIntSerializeSize(uint64(len(in.ScriptSig))) + len(in.ScriptSig) + 4
}

func readTxIn(r io.Reader) (TxIn, error) {
	var in TxIn

	if _, err := io.ReadFull(r, in.PrevOut.Hash[:]); err != nil {
		return in, errors.NewTxParseError("failed to read prevout hash", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &in.PrevOut.N); err != nil {
		return in, errors.NewTxParseError("failed to read prevout index", err)
	}

	script, err := wire.ReadVarBytes(r, 0, MaxScriptSize, "scriptSig")
	if err != nil {
		return in, errors.NewTxParseError("failed to read scriptSig", err)
	}

	in.ScriptSig = script

	if err = binary.Read(r, binary.LittleEndian, &in.Sequence); err != nil {
		return in, errors.NewTxParseError("failed to read sequence", err)
	}

	return in, nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	c := make([]byte, len(b))
	copy(c, b)

	return c
}
