package model

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// NullIndex is the output index of a null outpoint.
const NullIndex = math.MaxUint32

// OutPoint references output N of the transaction with hash Hash.
type OutPoint struct {
	Hash chainhash.Hash
	N    uint32
}

// NewOutPoint returns an outpoint referencing output n of tx hash.
func NewOutPoint(hash chainhash.Hash, n uint32) OutPoint {
	return OutPoint{Hash: hash, N: n}
}

// NullOutPoint returns the outpoint used by generation inputs.
func NullOutPoint() OutPoint {
	return OutPoint{N: NullIndex}
}

func (o *OutPoint) SetNull() {
	o.Hash = chainhash.Hash{}
	o.N = NullIndex
}

// IsNull reports whether o is the generation outpoint (zero hash and maximal index).
func (o OutPoint) IsNull() bool {
	return o.Hash == chainhash.Hash{} && o.N == NullIndex
}

// Less orders outpoints by the raw hash bytes, compared from the first byte, then by index.
func (o OutPoint) Less(other OutPoint) bool {
	if c := bytes.Compare(o.Hash[:], other.Hash[:]); c != 0 {
		return c < 0
	}

	return o.N < other.N
}

func (o OutPoint) String() string {
	return fmt.Sprintf("COutPoint(%s, %d)", o.Hash.String()[:10], o.N)
}

// StringShort returns hash-n.
func (o OutPoint) StringShort() string {
	return fmt.Sprintf("%s-%d", o.Hash.String(), o.N)
}

// SaplingOutPoint references a shielded output by transaction hash and output index.
type SaplingOutPoint struct {
	Hash chainhash.Hash
	N    uint32
}

func NewSaplingOutPoint(hash chainhash.Hash, n uint32) SaplingOutPoint {
	return SaplingOutPoint{Hash: hash, N: n}
}

func (o SaplingOutPoint) IsNull() bool {
	return o.Hash == chainhash.Hash{} && o.N == NullIndex
}

func (o SaplingOutPoint) String() string {
	return fmt.Sprintf("SaplingOutPoint(%s, %d)", o.Hash.String()[:10], o.N)
}
