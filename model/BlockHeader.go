package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
)

const (
	// BlockVersionSapling is the first header version committing to the sapling note tree.
	BlockVersionSapling int32 = 8

	// accumulator checkpoints were carried by header versions 4 to 6
	blockVersionAccumulatorFirst int32 = 4
	blockVersionAccumulatorLast  int32 = 6

	blockHeaderBaseSize = 4 + 32 + 32 + 4 + 4 + 4
)

// BlockHeader is the hashed part of a block.
type BlockHeader struct {
	Version               int32
	HashPrevBlock         chainhash.Hash
	HashMerkleRoot        chainhash.Hash
	Time                  uint32
	Bits                  uint32
	Nonce                 uint32
	AccumulatorCheckpoint chainhash.Hash
	HashFinalSaplingRoot  chainhash.Hash
}

func (bh *BlockHeader) hasAccumulatorCheckpoint() bool {
	return bh.Version >= blockVersionAccumulatorFirst && bh.Version <= blockVersionAccumulatorLast
}

func (bh *BlockHeader) hasSaplingRoot() bool {
	return bh.Version >= BlockVersionSapling
}

// Hash returns the double SHA-256 of the serialized header.
func (bh *BlockHeader) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(bh.Bytes())
}

func (bh *BlockHeader) String() string {
	return fmt.Sprintf("BlockHeader(hash=%s, ver=%d, hashPrevBlock=%s, hashMerkleRoot=%s, nTime=%d, nBits=%08x, nNonce=%d)",
		bh.Hash(), bh.Version, bh.HashPrevBlock, bh.HashMerkleRoot, bh.Time, bh.Bits, bh.Nonce)
}

// Bytes returns the wire encoding of the header.
func (bh *BlockHeader) Bytes() []byte {
	size := blockHeaderBaseSize
	if bh.hasAccumulatorCheckpoint() {
		size += chainhash.HashSize
	}

	if bh.hasSaplingRoot() {
		size += chainhash.HashSize
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))
	_ = bh.Serialize(buf)

	return buf.Bytes()
}

func (bh *BlockHeader) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, bh.Version); err != nil {
		return err
	}

	if _, err := w.Write(bh.HashPrevBlock[:]); err != nil {
		return err
	}

	if _, err := w.Write(bh.HashMerkleRoot[:]); err != nil {
		return err
	}

	for _, v := range []uint32{bh.Time, bh.Bits, bh.Nonce} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if bh.hasAccumulatorCheckpoint() {
		if _, err := w.Write(bh.AccumulatorCheckpoint[:]); err != nil {
			return err
		}
	}

	if bh.hasSaplingRoot() {
		if _, err := w.Write(bh.HashFinalSaplingRoot[:]); err != nil {
			return err
		}
	}

	return nil
}

// NewBlockHeaderFromReader decodes a header from r.
func NewBlockHeaderFromReader(r io.Reader) (*BlockHeader, error) {
	bh := &BlockHeader{}

	if err := binary.Read(r, binary.LittleEndian, &bh.Version); err != nil {
		return nil, errors.NewBlockInvalidError("failed to read block version", err)
	}

	if _, err := io.ReadFull(r, bh.HashPrevBlock[:]); err != nil {
		return nil, errors.NewBlockInvalidError("failed to read previous block hash", err)
	}

	if _, err := io.ReadFull(r, bh.HashMerkleRoot[:]); err != nil {
		return nil, errors.NewBlockInvalidError("failed to read merkle root", err)
	}

	for _, v := range []*uint32{&bh.Time, &bh.Bits, &bh.Nonce} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, errors.NewBlockInvalidError("failed to read block header", err)
		}
	}

	if bh.hasAccumulatorCheckpoint() {
		if _, err := io.ReadFull(r, bh.AccumulatorCheckpoint[:]); err != nil {
			return nil, errors.NewBlockInvalidError("failed to read accumulator checkpoint", err)
		}
	}

	if bh.hasSaplingRoot() {
		if _, err := io.ReadFull(r, bh.HashFinalSaplingRoot[:]); err != nil {
			return nil, errors.NewBlockInvalidError("failed to read final sapling root", err)
		}
	}

	return bh, nil
}
