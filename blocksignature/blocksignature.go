// Package blocksignature signs blocks with the staker's key and verifies those signatures
// against the coinstake transaction.
package blocksignature

import (
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/ulogger"
)

// p2pkRedeemSize is the length of a scriptSig that pushes only a DER signature and sighash byte.
const p2pkRedeemSize = 73

type KeyStore interface {
	GetKey(keyID model.KeyID) (*bec.PrivateKey, error)
}

// SignBlockWithKey signs the block hash with key and attaches the DER signature.
func SignBlockWithKey(block *model.Block, key *bec.PrivateKey) error {
	hash := block.Hash()

	sig, err := key.Sign(hash[:])
	if err != nil {
		return errors.NewBlockSignatureInvalidError("failed to sign block hash with key", err)
	}

	block.BlockSig = sig.Serialize()

	return nil
}

// SignBlock signs with the key owning the first recognized coinbase output of a
// proof-of-work block, or the coinstake payout output of a proof-of-stake block.
func SignBlock(block *model.Block, keyStore KeyStore) error {
	keyID, err := signingKeyID(block)
	if err != nil {
		return err
	}

	key, err := keyStore.GetKey(keyID)
	if err != nil {
		return errors.NewKeyNotFoundError("failed to get key %s from keystore", keyID, err)
	}

	return SignBlockWithKey(block, key)
}

func signingKeyID(block *model.Block) (model.KeyID, error) {
	if len(block.Txs) == 0 {
		return model.KeyID{}, errors.NewBlockInvalidError("block %s has no transactions", block.Hash())
	}

	if block.IsProofOfWork() {
		for _, out := range block.Txs[0].Outputs() {
			if keyID, ok := out.GetKeyIDFromUTXO(); ok {
				return keyID, nil
			}
		}

		return model.KeyID{}, errors.NewKeyNotFoundError("failed to find key for PoW")
	}

	out := block.Txs[1].Output(1)

	keyID, ok := out.GetKeyIDFromUTXO()
	if !ok {
		return model.KeyID{}, errors.NewKeyNotFoundError("failed to find key for PoS")
	}

	return keyID, nil
}

// CheckBlockSignature verifies the block signature. Proof-of-work blocks must carry none.
// Proof-of-stake blocks are verified with the key behind the coinstake payout output: taken
// from a P2PK script, or recovered from the stake input's scriptSig for P2PKH and P2CS.
func CheckBlockSignature(block *model.Block) error {
	if block.IsProofOfWork() {
		if len(block.BlockSig) != 0 {
			return errors.NewBlockSignatureInvalidError("proof-of-work block %s carries a signature", block.Hash())
		}

		return nil
	}

	if len(block.BlockSig) == 0 {
		return errors.NewBlockSignatureInvalidError("vchBlockSig is empty")
	}

	pubKeyBytes, err := stakerPubKey(block.Txs[1])
	if err != nil {
		return err
	}

	pubKey, err := bec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return errors.NewBlockSignatureInvalidError("invalid pubkey %x", pubKeyBytes, err)
	}

	sig, err := bec.ParseDERSignature(block.BlockSig)
	if err != nil {
		return errors.NewBlockSignatureInvalidError("malformed block signature", err)
	}

	hash := block.Hash()
	if !sig.Verify(hash[:], pubKey) {
		return errors.NewBlockSignatureInvalidError("signature does not match block %s", hash)
	}

	return nil
}

func stakerPubKey(coinStake *model.Transaction) ([]byte, error) {
	out := coinStake.Output(1)

	whichType, solutions := model.Solver(out.ScriptPubKey)

	switch whichType {
	case model.TxPubKey:
		return solutions[0], nil

	case model.TxPubKeyHash:
		scriptSig := coinStake.Input(0).ScriptSig

		// a P2PK redeem holds only the signature, so the key behind a P2PKH payout is not in the block
		if len(scriptSig) == p2pkRedeemSize {
			return nil, errors.NewBlockSignatureInvalidError("p2pk stake input paying to p2pkh: no public key to verify with")
		}

		start, err := skipPush(scriptSig, 0)
		if err != nil {
			return nil, err
		}

		return pushData(scriptSig, start)

	case model.TxColdStake:
		scriptSig := coinStake.Input(0).ScriptSig

		start, err := skipPush(scriptSig, 0)
		if err != nil {
			return nil, err
		}

		if start, err = skipPush(scriptSig, start); err != nil {
			return nil, err
		}

		return pushData(scriptSig, start)
	}

	return nil, errors.NewBlockSignatureInvalidError("unsupported coinstake output type %s", whichType)
}

// skipPush returns the offset just past the direct push starting at offset.
func skipPush(script []byte, offset int) (int, error) {
	if offset >= len(script) {
		return 0, errors.NewBlockSignatureInvalidError("stake scriptSig truncated at %d", offset)
	}

	next := offset + 1 + int(script[offset])
	if next > len(script) {
		return 0, errors.NewBlockSignatureInvalidError("stake scriptSig push at %d overruns script", offset)
	}

	return next, nil
}

// pushData returns everything after the push opcode at offset.
func pushData(script []byte, offset int) ([]byte, error) {
	if offset+1 > len(script) {
		return nil, errors.NewBlockSignatureInvalidError("stake scriptSig has no public key")
	}

	return script[offset+1:], nil
}

// Verifier checks block signatures and logs why a block was rejected.
type Verifier struct {
	logger ulogger.Logger
}

func NewVerifier(logger ulogger.Logger) *Verifier {
	return &Verifier{logger: logger}
}

func (v *Verifier) CheckBlockSignature(block *model.Block) error {
	if err := CheckBlockSignature(block); err != nil {
		v.logger.Warnf("[BlockSignature] block %s rejected: %v", block.Hash(), err)
		return err
	}

	return nil
}
