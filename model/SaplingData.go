package model

import (
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-wire"
	"github.com/idc-chain/idcnode/errors"
)

// Sizes of the opaque sapling fields. Proofs and signatures are carried verbatim; verifying
// them is the job of the shielded proof verifier, not this package.
const (
	GrothProofSize     = 192
	SpendAuthSigSize   = 64
	BindingSigSize     = 64
	EncCiphertextSize  = 580
	OutCiphertextSize  = 80
	SpendDescSize      = 32*4 + GrothProofSize + SpendAuthSigSize
	OutputDescSize     = 32*3 + EncCiphertextSize + OutCiphertextSize + GrothProofSize
	maxShieldedEntries = 10_000
)

// SpendDescription consumes a shielded note.
type SpendDescription struct {
	CV           [32]byte
	Anchor       [32]byte
	Nullifier    [32]byte
	RK           [32]byte
	ZKProof      [GrothProofSize]byte
	SpendAuthSig [SpendAuthSigSize]byte
}

// OutputDescription creates a shielded note.
type OutputDescription struct {
	CV            [32]byte
	CMU           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [EncCiphertextSize]byte
	OutCiphertext [OutCiphertextSize]byte
	ZKProof       [GrothProofSize]byte
}

// SaplingTxData is the shielded part of a transaction. ValueBalance is the net value moving
// from the shielded pool into the transparent pool: positive values act like inputs,
// negative values like outputs.
type SaplingTxData struct {
	ValueBalance    Amount
	ShieldedSpends  []SpendDescription
	ShieldedOutputs []OutputDescription
	BindingSig      [BindingSigSize]byte
}

// IsEmpty reports whether the data carries no shielded activity at all.
func (s *SaplingTxData) IsEmpty() bool {
	return s.ValueBalance == 0 &&
		len(s.ShieldedSpends) == 0 &&
		len(s.ShieldedOutputs) == 0 &&
		s.BindingSig == [BindingSigSize]byte{}
}

func (s *SaplingTxData) clone() *SaplingTxData {
	c := &SaplingTxData{
		ValueBalance: s.ValueBalance,
		BindingSig:   s.BindingSig,
	}

	if s.ShieldedSpends != nil {
		c.ShieldedSpends = append([]SpendDescription{}, s.ShieldedSpends...)
	}

	if s.ShieldedOutputs != nil {
		c.ShieldedOutputs = append([]OutputDescription{}, s.ShieldedOutputs...)
	}

	return c
}

func (s *SaplingTxData) serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int64(s.ValueBalance)); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(s.ShieldedSpends))); err != nil {
		return err
	}

	for i := range s.ShieldedSpends {
		if err := binary.Write(w, binary.LittleEndian, &s.ShieldedSpends[i]); err != nil {
			return err
		}
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(s.ShieldedOutputs))); err != nil {
		return err
	}

	for i := range s.ShieldedOutputs {
		if err := binary.Write(w, binary.LittleEndian, &s.ShieldedOutputs[i]); err != nil {
			return err
		}
	}

	_, err := w.Write(s.BindingSig[:])

	return err
}

func (s *SaplingTxData) serializeSize() int {
	return 8 +
		wire.VarIntSerializeSize(uint64(len(s.ShieldedSpends))) + len(s.ShieldedSpends)*SpendDescSize +
		wire.VarIntSerializeSize(uint64(len(s.ShieldedOutputs))) + len(s.ShieldedOutputs)*OutputDescSize +
		BindingSigSize
}

func readSaplingTxData(r io.Reader) (*SaplingTxData, error) {
	s := &SaplingTxData{}

	var valueBalance int64
	if err := binary.Read(r, binary.LittleEndian, &valueBalance); err != nil {
		return nil, errors.NewTxParseError("failed to read value balance", err)
	}

	s.ValueBalance = Amount(valueBalance)

	spends, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewTxParseError("failed to read shielded spend count", err)
	}

	if spends > maxShieldedEntries {
		return nil, errors.NewTxParseError("too many shielded spends: %d", spends)
	}

	s.ShieldedSpends = make([]SpendDescription, spends)
	for i := range s.ShieldedSpends {
		if err = binary.Read(r, binary.LittleEndian, &s.ShieldedSpends[i]); err != nil {
			return nil, errors.NewTxParseError("failed to read shielded spend %d", i, err)
		}
	}

	outputs, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewTxParseError("failed to read shielded output count", err)
	}

	if outputs > maxShieldedEntries {
		return nil, errors.NewTxParseError("too many shielded outputs: %d", outputs)
	}

	s.ShieldedOutputs = make([]OutputDescription, outputs)
	for i := range s.ShieldedOutputs {
		if err = binary.Read(r, binary.LittleEndian, &s.ShieldedOutputs[i]); err != nil {
			return nil, errors.NewTxParseError("failed to read shielded output %d", i, err)
		}
	}

	if _, err = io.ReadFull(r, s.BindingSig[:]); err != nil {
		return nil, errors.NewTxParseError("failed to read binding signature", err)
	}

	return s, nil
}
