package model

import (
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// BlockIndex is the chain context of an accepted block: where it sits and when it was mined.
// Stake inputs keep the index of the block their output was confirmed in.
type BlockIndex struct {
	Hash     chainhash.Hash
	PrevHash chainhash.Hash
	Height   int32
	Time     uint32
	Bits     uint32
	// MoneySupply is the total transparent supply after this block, when known.
	MoneySupply Amount
}

// NewBlockIndex returns the index entry for header at height.
func NewBlockIndex(header *BlockHeader, height int32) *BlockIndex {
	return &BlockIndex{
		Hash:     header.Hash(),
		PrevHash: header.HashPrevBlock,
		Height:   height,
		Time:     header.Time,
		Bits:     header.Bits,
	}
}

// GetBlockTime returns the block time as a signed unix timestamp.
func (bi *BlockIndex) GetBlockTime() int64 {
	return int64(bi.Time)
}

func (bi *BlockIndex) String() string {
	return fmt.Sprintf("CBlockIndex(nHeight=%d, hashBlock=%s)", bi.Height, bi.Hash)
}
