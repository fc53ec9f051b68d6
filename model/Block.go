package model

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/util"
)

const (
	// maxBlockSigSize bounds the DER signature when decoding.
	maxBlockSigSize = 80
	// maxBlockTxs bounds the transaction count when decoding.
	maxBlockTxs = 1_000_000
)

// Block is a header, its transactions and, for proof-of-stake blocks, the signature of the
// staker over the header hash.
type Block struct {
	Header   *BlockHeader
	Txs      []*Transaction
	BlockSig []byte
}

// NewBlock returns a block with the given header and transactions.
func NewBlock(header *BlockHeader, txs []*Transaction) *Block {
	return &Block{
		Header: header,
		Txs:    txs,
	}
}

// Hash returns the header hash. The signature and transactions are not part of it.
func (b *Block) Hash() chainhash.Hash {
	return b.Header.Hash()
}

// IsProofOfStake reports whether the second transaction is a coinstake.
func (b *Block) IsProofOfStake() bool {
	return len(b.Txs) > 1 && b.Txs[1].IsCoinStake()
}

func (b *Block) IsProofOfWork() bool {
	return !b.IsProofOfStake()
}

// BuildMerkleRoot computes the merkle root over the transaction hashes.
func (b *Block) BuildMerkleRoot() chainhash.Hash {
	hashes := make([]chainhash.Hash, len(b.Txs))
	for i, tx := range b.Txs {
		hashes[i] = tx.Hash()
	}

	return util.BuildMerkleRoot(hashes)
}

// Bytes returns the wire encoding: header, transactions and, for PoS blocks, the signature.
func (b *Block) Bytes() []byte {
	var buf bytes.Buffer
	_ = b.Serialize(&buf)

	return buf.Bytes()
}

func (b *Block) Serialize(w io.Writer) error {
	if err := b.Header.Serialize(w); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(b.Txs))); err != nil {
		return err
	}

	for _, tx := range b.Txs {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}

	if b.IsProofOfStake() {
		return wire.WriteVarBytes(w, 0, b.BlockSig)
	}

	return nil
}

// NewBlockFromBytes decodes a block. Trailing bytes are an error.
func NewBlockFromBytes(blockBytes []byte) (*Block, error) {
	r := bytes.NewReader(blockBytes)

	header, err := NewBlockHeaderFromReader(r)
	if err != nil {
		return nil, err
	}

	txCount, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewBlockInvalidError("failed to read transaction count", err)
	}

	if txCount > maxBlockTxs {
		return nil, errors.NewBlockInvalidError("too many transactions: %d", txCount)
	}

	block := &Block{
		Header: header,
		Txs:    make([]*Transaction, 0, txCount),
	}

	for i := uint64(0); i < txCount; i++ {
		tx, err := NewTransactionFromReader(r)
		if err != nil {
			return nil, errors.NewBlockInvalidError("failed to read transaction %d", i, err)
		}

		block.Txs = append(block.Txs, tx)
	}

	if block.IsProofOfStake() {
		if block.BlockSig, err = wire.ReadVarBytes(r, 0, maxBlockSigSize, "blockSig"); err != nil {
			return nil, errors.NewBlockInvalidError("failed to read block signature", err)
		}
	}

	if r.Len() != 0 {
		return nil, errors.NewBlockInvalidError("%d trailing bytes after block", r.Len())
	}

	return block, nil
}

func (b *Block) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("CBlock(hash=%s, ver=%d, hashPrevBlock=%s, hashMerkleRoot=%s, nTime=%d, nBits=%08x, nNonce=%d, vtx=%d)\n",
		b.Hash(), b.Header.Version, b.Header.HashPrevBlock, b.Header.HashMerkleRoot,
		b.Header.Time, b.Header.Bits, b.Header.Nonce, len(b.Txs)))

	for _, tx := range b.Txs {
		sb.WriteString("  " + tx.String())
	}

	return sb.String()
}
