package model

import (
	"encoding/hex"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/util"
)

const (
	// OpCheckColdStakeVerify checks that the staker key spends back to the same P2CS script.
	OpCheckColdStakeVerify byte = 0xd1
	// OpCheckColdStakeVerifyLOF is the variant that also allows leasing and other free outputs.
	OpCheckColdStakeVerifyLOF byte = 0xd2

	// P2CSScriptSize is the length of a pay-to-cold-staking locking script.
	P2CSScriptSize = 51
	// P2PKHScriptSize is the length of a pay-to-pubkey-hash locking script.
	P2PKHScriptSize = 25

	compressedPubKeySize   = 33
	uncompressedPubKeySize = 65
	keyIDSize              = 20
)

// KeyID is the HASH160 of a serialized public key.
type KeyID [keyIDSize]byte

// KeyIDFromPubKey returns the key identity of a serialized public key.
func KeyIDFromPubKey(pubKey []byte) KeyID {
	var id KeyID
	copy(id[:], util.Hash160(pubKey))

	return id
}

// NewKeyIDFromBytes copies a 20 byte hash into a KeyID.
func NewKeyIDFromBytes(b []byte) (KeyID, error) {
	var id KeyID
	if len(b) != keyIDSize {
		return id, errors.NewInvalidArgumentError("key id must be %d bytes, got %d", keyIDSize, len(b))
	}

	copy(id[:], b)

	return id, nil
}

func (k KeyID) String() string {
	return hex.EncodeToString(k[:])
}

// TxOutType classifies a locking script.
type TxOutType int

const (
	TxNonStandard TxOutType = iota
	TxPubKey
	TxPubKeyHash
	TxColdStake
	TxNullData
)

func (t TxOutType) String() string {
	switch t {
	case TxPubKey:
		return "pubkey"
	case TxPubKeyHash:
		return "pubkeyhash"
	case TxColdStake:
		return "coldstake"
	case TxNullData:
		return "nulldata"
	default:
		return "nonstandard"
	}
}

// Solver classifies script and returns the data pushes relevant to its type:
// the public key for TxPubKey, the key hash for TxPubKeyHash and the staker then
// owner key hashes for TxColdStake.
func Solver(script []byte) (TxOutType, [][]byte) {
	switch {
	case isPayToPubKey(script):
		return TxPubKey, [][]byte{script[1 : len(script)-1]}
	case isPayToPubKeyHash(script):
		return TxPubKeyHash, [][]byte{script[3:23]}
	case IsPayToColdStaking(script):
		return TxColdStake, [][]byte{script[6:26], script[28:48]}
	case len(script) > 0 && script[0] == bscript.OpRETURN:
		return TxNullData, nil
	}

	return TxNonStandard, nil
}

func isPayToPubKey(script []byte) bool {
	switch len(script) {
	case compressedPubKeySize + 2:
		return script[0] == compressedPubKeySize && script[len(script)-1] == bscript.OpCHECKSIG
	case uncompressedPubKeySize + 2:
		return script[0] == uncompressedPubKeySize && script[len(script)-1] == bscript.OpCHECKSIG
	}

	return false
}

func isPayToPubKeyHash(script []byte) bool {
	return len(script) == P2PKHScriptSize &&
		script[0] == bscript.OpDUP &&
		script[1] == bscript.OpHASH160 &&
		script[2] == keyIDSize &&
		script[23] == bscript.OpEQUALVERIFY &&
		script[24] == bscript.OpCHECKSIG
}

// IsPayToColdStaking reports whether script is the 51 byte cold staking template:
// DUP HASH160 ROT IF CHECKCOLDSTAKEVERIFY[_LOF] <staker> ELSE <owner> ENDIF EQUALVERIFY CHECKSIG.
func IsPayToColdStaking(script []byte) bool {
	return len(script) == P2CSScriptSize &&
		script[0] == bscript.OpDUP &&
		script[1] == bscript.OpHASH160 &&
		script[2] == bscript.OpROT &&
		script[3] == bscript.OpIF &&
		(script[4] == OpCheckColdStakeVerify || script[4] == OpCheckColdStakeVerifyLOF) &&
		script[5] == keyIDSize &&
		script[26] == bscript.OpELSE &&
		script[27] == keyIDSize &&
		script[48] == bscript.OpENDIF &&
		script[49] == bscript.OpEQUALVERIFY &&
		script[50] == bscript.OpCHECKSIG
}

// NewP2PKScript returns <pubKey> CHECKSIG.
func NewP2PKScript(pubKey []byte) (bscript.Script, error) {
	if len(pubKey) != compressedPubKeySize && len(pubKey) != uncompressedPubKeySize {
		return nil, errors.NewInvalidArgumentError("invalid public key length %d", len(pubKey))
	}

	s := &bscript.Script{}
	if err := s.AppendPushData(pubKey); err != nil {
		return nil, errors.NewProcessingError("failed to push public key", err)
	}

	if err := s.AppendOpcodes(bscript.OpCHECKSIG); err != nil {
		return nil, errors.NewProcessingError("failed to append CHECKSIG", err)
	}

	return *s, nil
}

// NewP2PKHScript returns DUP HASH160 <keyID> EQUALVERIFY CHECKSIG.
func NewP2PKHScript(keyID KeyID) bscript.Script {
	s := make(bscript.Script, 0, P2PKHScriptSize)
	s = append(s, bscript.OpDUP, bscript.OpHASH160, keyIDSize)
	s = append(s, keyID[:]...)

	return append(s, bscript.OpEQUALVERIFY, bscript.OpCHECKSIG)
}

// NewP2CSScript returns the cold staking script delegating staking rights to staker while
// keeping spending rights with owner.
func NewP2CSScript(staker, owner KeyID, lof bool) bscript.Script {
	op := OpCheckColdStakeVerify
	if lof {
		op = OpCheckColdStakeVerifyLOF
	}

	s := make(bscript.Script, 0, P2CSScriptSize)
	s = append(s, bscript.OpDUP, bscript.OpHASH160, bscript.OpROT, bscript.OpIF, op, keyIDSize)
	s = append(s, staker[:]...)
	s = append(s, bscript.OpELSE, keyIDSize)
	s = append(s, owner[:]...)

	return append(s, bscript.OpENDIF, bscript.OpEQUALVERIFY, bscript.OpCHECKSIG)
}
