package util

import (
	"crypto/sha256"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // HASH160 is RIPEMD160(SHA256(b)) by definition
)

// Hash160 returns RIPEMD160(SHA256(b)), the 20 byte key identity used by P2PKH and cold staking scripts.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)

	h := ripemd160.New()
	_, _ = h.Write(sha[:])

	return h.Sum(nil)
}

// BuildMerkleRoot computes the merkle root of the given leaf hashes, duplicating the last
// hash of any level with an odd number of nodes. An empty list yields the zero hash.
func BuildMerkleRoot(hashes []chainhash.Hash) chainhash.Hash {
	if len(hashes) == 0 {
		return chainhash.Hash{}
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	var buf [chainhash.HashSize * 2]byte

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		next := make([]chainhash.Hash, 0, len(level)/2)

		for i := 0; i < len(level); i += 2 {
			copy(buf[:chainhash.HashSize], level[i][:])
			copy(buf[chainhash.HashSize:], level[i+1][:])
			next = append(next, chainhash.DoubleHashH(buf[:]))
		}

		level = next
	}

	return level[0]
}
