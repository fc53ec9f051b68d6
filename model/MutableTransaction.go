package model

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/idc-chain/idcnode/errors"
)

// TxVersion is the transaction format version. It gates which optional sections are serialized.
type TxVersion int16

const (
	TxVersionLegacy  TxVersion = 1
	TxVersionSapling TxVersion = 3
	TxVersionTooHigh TxVersion = 4

	// TxVersionCurrent is the version given to newly built transactions.
	TxVersionCurrent = TxVersionLegacy
)

// TxType tags special transactions carrying an extra payload.
type TxType int16

const (
	TxTypeNormal TxType = iota
	TxTypeProReg
	TxTypeProUpServ
	TxTypeProUpReg
	TxTypeProUpRev
)

const (
	// MaxScriptSize bounds scriptSig and scriptPubKey when decoding.
	MaxScriptSize = 10_000
	// MaxExtraPayloadSize bounds the special transaction payload when decoding.
	MaxExtraPayloadSize = 10_000
	// maxTxInOut bounds the input and output counts when decoding.
	maxTxInOut = 1_000_000
)

// MutableTransaction is the builder form of a transaction. Build it field by field, then call
// Freeze to obtain the immutable, hash-carrying Transaction.
//
// SapData and ExtraPayload are optional sections: nil means absent. A non-nil but empty
// ExtraPayload is present and serializes as an empty payload.
type MutableTransaction struct {
	Version      TxVersion
	Type         TxType
	Vin          []TxIn
	Vout         []TxOut
	LockTime     uint32
	SapData      *SaplingTxData
	ExtraPayload []byte
}

// NewMutableTransaction returns an empty normal transaction of the current version.
func NewMutableTransaction() *MutableTransaction {
	return &MutableTransaction{
		Version: TxVersionCurrent,
		Type:    TxTypeNormal,
	}
}

// AddInput appends an input. Input order is part of the transaction identity.
func (m *MutableTransaction) AddInput(in TxIn) *MutableTransaction {
	m.Vin = append(m.Vin, in)
	return m
}

// AddOutput appends an output.
func (m *MutableTransaction) AddOutput(out TxOut) *MutableTransaction {
	m.Vout = append(m.Vout, out)
	return m
}

func (m *MutableTransaction) isSaplingVersion() bool {
	return m.Version >= TxVersionSapling
}

// Hash serializes the builder and returns its double SHA-256. It is recomputed on every call.
func (m *MutableTransaction) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(m.Bytes())
}

// Bytes returns the canonical wire encoding.
func (m *MutableTransaction) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, m.serializeSize()))
	_ = m.Serialize(buf)

	return buf.Bytes()
}

// Serialize writes the canonical wire encoding: version, type, inputs, outputs, lock time and,
// for sapling versions, the optional shielded data followed by the optional extra payload of
// special transactions. Optional sections are a presence byte followed by the section.
func (m *MutableTransaction) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int16(m.Version)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, int16(m.Type)); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(m.Vin))); err != nil {
		return err
	}

	for i := range m.Vin {
		if err := m.Vin[i].serialize(w); err != nil {
			return err
		}
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(m.Vout))); err != nil {
		return err
	}

	for i := range m.Vout {
		if err := m.Vout[i].serialize(w); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, m.LockTime); err != nil {
		return err
	}

	if !m.isSaplingVersion() {
		return nil
	}

	if m.SapData == nil {
		if _, err := w.Write([]byte{0}); err != nil {
			return err
		}
	} else {
		if _, err := w.Write([]byte{1}); err != nil {
			return err
		}

		if err := m.SapData.serialize(w); err != nil {
			return err
		}
	}

	if m.Type == TxTypeNormal {
		return nil
	}

	if m.ExtraPayload == nil {
		_, err := w.Write([]byte{0})
		return err
	}

	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}

	return wire.WriteVarBytes(w, 0, m.ExtraPayload)
}

func (m *MutableTransaction) serializeSize() int {
	n := 2 + 2 + wire.VarIntSerializeSize(uint64(len(m.Vin))) + wire.VarIntSerializeSize(uint64(len(m.Vout))) + 4

	for i := range m.Vin {
		n += m.Vin[i].serializeSize()
	}

	for i := range m.Vout {
		n += m.Vout[i].serializeSize()
	}

	if !m.isSaplingVersion() {
		return n
	}

	n++
	if m.SapData != nil {
		n += m.SapData.serializeSize()
	}

	if m.Type != TxTypeNormal {
		n++
		if m.ExtraPayload != nil {
			n += wire.VarIntSerializeSize(uint64(len(m.ExtraPayload))) + len(m.ExtraPayload)
		}
	}

	return n
}

// ReadFrom decodes a transaction from r into m, replacing its contents.
func (m *MutableTransaction) ReadFrom(r io.Reader) error {
	var version, txType int16

	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return errors.NewTxParseError("failed to read version", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &txType); err != nil {
		return errors.NewTxParseError("failed to read type", err)
	}

	*m = MutableTransaction{Version: TxVersion(version), Type: TxType(txType)}

	inCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return errors.NewTxParseError("failed to read input count", err)
	}

	if inCount > maxTxInOut {
		return errors.NewTxParseError("too many inputs: %d", inCount)
	}

	m.Vin = make([]TxIn, 0, inCount)
	for i := uint64(0); i < inCount; i++ {
		in, err := readTxIn(r)
		if err != nil {
			return err
		}

		m.Vin = append(m.Vin, in)
	}

	outCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return errors.NewTxParseError("failed to read output count", err)
	}

	if outCount > maxTxInOut {
		return errors.NewTxParseError("too many outputs: %d", outCount)
	}

	m.Vout = make([]TxOut, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		out, err := readTxOut(r)
		if err != nil {
			return err
		}

		m.Vout = append(m.Vout, out)
	}

	if err = binary.Read(r, binary.LittleEndian, &m.LockTime); err != nil {
		return errors.NewTxParseError("failed to read lock time", err)
	}

	if !m.isSaplingVersion() {
		return nil
	}

	present, err := readOptionalFlag(r, "sapling data")
	if err != nil {
		return err
	}

	if present {
		if m.SapData, err = readSaplingTxData(r); err != nil {
			return err
		}
	}

	if m.Type == TxTypeNormal {
		return nil
	}

	if present, err = readOptionalFlag(r, "extra payload"); err != nil {
		return err
	}

	if present {
		payload, err := wire.ReadVarBytes(r, 0, MaxExtraPayloadSize, "extraPayload")
		if err != nil {
			return errors.NewTxParseError("failed to read extra payload", err)
		}

		if payload == nil {
			payload = []byte{}
		}

		m.ExtraPayload = payload
	}

	return nil
}

func readOptionalFlag(r io.Reader, field string) (bool, error) {
	var flag [1]byte
	if _, err := io.ReadFull(r, flag[:]); err != nil {
		return false, errors.NewTxParseError("failed to read %s flag", field, err)
	}

	switch flag[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.NewTxParseError("invalid %s flag %d", field, flag[0])
	}
}

// Freeze returns an immutable copy of the builder with its identity hash computed.
// Later changes to the builder do not affect the returned transaction.
func (m *MutableTransaction) Freeze() *Transaction {
	frozen := m.clone()
	b := frozen.Bytes()

	return &Transaction{
		tx:   frozen,
		hash: chainhash.DoubleHashH(b),
		size: len(b),
	}
}

func (m *MutableTransaction) clone() MutableTransaction {
	c := MutableTransaction{
		Version:      m.Version,
		Type:         m.Type,
		LockTime:     m.LockTime,
		ExtraPayload: cloneBytes(m.ExtraPayload),
	}

	if m.Vin != nil {
		c.Vin = make([]TxIn, len(m.Vin))
		for i := range m.Vin {
			c.Vin[i] = m.Vin[i].Clone()
		}
	}

	if m.Vout != nil {
		c.Vout = make([]TxOut, len(m.Vout))
		for i := range m.Vout {
			c.Vout[i] = m.Vout[i].Clone()
		}
	}

	if m.SapData != nil {
		c.SapData = m.SapData.clone()
	}

	return c
}
