package stakeinput

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/chaincfg"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/ulogger"
)

// IdcStake stakes a confirmed transparent output.
type IdcStake struct {
	logger       ulogger.Logger
	params       *chaincfg.Params
	outputFrom   model.TxOut
	outpointFrom model.OutPoint
	indexFrom    *model.BlockIndex
}

var _ StakeInput = (*IdcStake)(nil)

// NewIdcStake returns the stake of output out, found at outpoint and confirmed in indexFrom.
func NewIdcStake(logger ulogger.Logger, params *chaincfg.Params, out model.TxOut, outpoint model.OutPoint, indexFrom *model.BlockIndex) *IdcStake {
	return &IdcStake{
		logger:       logger,
		params:       params,
		outputFrom:   out.Clone(),
		outpointFrom: outpoint,
		indexFrom:    indexFrom,
	}
}

// NewIdcStakeFromTxIn resolves the output spent by txIn. The coins view is tried first; an
// output already spent there is looked up in the transaction index, and its block must be on
// the active chain.
func NewIdcStakeFromTxIn(ctx context.Context, logger ulogger.Logger, params *chaincfg.Params, txIn model.TxIn,
	coins CoinsView, txIndex TxIndex, chain ChainIndex) (*IdcStake, error) {
	prevout := txIn.PrevOut

	if coin, err := coins.GetCoin(ctx, prevout); err == nil && !coin.IsSpent() {
		indexFrom, err := chain.GetBlockIndexByHeight(ctx, coin.Height)
		if err != nil {
			return nil, errors.NewStakeInvalidError("no active block at height %d for stake %s", coin.Height, prevout.StringShort(), err)
		}

		return NewIdcStake(logger, params, coin.Out, prevout, indexFrom), nil
	}

	txPrev, blockHash, err := txIndex.GetTransaction(ctx, prevout.Hash)
	if err != nil {
		return nil, errors.NewStakeInvalidError("read txPrev failed, tx id prev: %s", prevout.Hash, err)
	}

	if int(prevout.N) >= txPrev.OutputCount() {
		return nil, errors.NewStakeInvalidError("stake %s: output index out of range", prevout.StringShort())
	}

	indexFrom, err := chain.GetBlockIndex(ctx, blockHash)
	if err != nil {
		return nil, errors.NewStakeInvalidError("failed to find the block index for stake origin %s", blockHash, err)
	}

	active, err := chain.GetBlockIndexByHeight(ctx, indexFrom.Height)
	if err != nil || active.Hash != indexFrom.Hash {
		return nil, errors.NewStakeInvalidError("stake origin %s is not on the active chain", blockHash)
	}

	return NewIdcStake(logger, params, txPrev.Output(int(prevout.N)), prevout, indexFrom), nil
}

func (s *IdcStake) InitFromTxIn(_ model.TxIn) error {
	if s.indexFrom == nil {
		return errors.NewStakeInvalidError("stake %s has no origin block", s.outpointFrom.StringShort())
	}

	return nil
}

func (s *IdcStake) GetIndexFrom() *model.BlockIndex {
	return s.indexFrom
}

func (s *IdcStake) GetTxOutFrom() (model.TxOut, error) {
	return s.outputFrom.Clone(), nil
}

func (s *IdcStake) GetValue() model.Amount {
	return s.outputFrom.Value
}

// GetUniqueness returns the outpoint as a little-endian index followed by the transaction hash.
func (s *IdcStake) GetUniqueness() []byte {
	var buf bytes.Buffer

	_ = binary.Write(&buf, binary.LittleEndian, s.outpointFrom.N)
	buf.Write(s.outpointFrom.Hash[:])

	return buf.Bytes()
}

// CreateTxIn spends the staked outpoint. Transparent stakes do not bind to the block, so
// hashTxOut is ignored.
func (s *IdcStake) CreateTxIn(_ Wallet, _ *chainhash.Hash) (model.TxIn, error) {
	return model.NewTxIn(s.outpointFrom, nil), nil
}

// CreateTxOuts pays total back to the kernel script, split over splitOutputs outputs of equal
// value with any remainder on the last one. More than MaxStakeSplitOutputs outputs is
// ERR_STAKE_INVALID. P2PKH and P2CS kernels require the wallet to hold
// the staking key; with onlyP2PK a P2PKH kernel is paid to the bare public key instead.
// The zero value marker output is not included.
func (s *IdcStake) CreateTxOuts(wallet Wallet, total model.Amount, onlyP2PK bool, splitOutputs int) ([]model.TxOut, error) {
	kernel := s.outputFrom.ScriptPubKey

	whichType, solutions := model.Solver(kernel)
	if whichType != model.TxPubKey && whichType != model.TxPubKeyHash && whichType != model.TxColdStake {
		return nil, errors.NewStakeInvalidError("type=%d (%s) not supported for scriptPubKeyKernel", whichType, whichType)
	}

	script := kernel

	if whichType == model.TxPubKeyHash || whichType == model.TxColdStake {
		keyID, err := model.NewKeyIDFromBytes(solutions[0])
		if err != nil {
			return nil, errors.NewStakeInvalidError("invalid kernel key id", err)
		}

		key, err := wallet.GetKey(keyID)
		if err != nil {
			return nil, errors.NewStakeInvalidError("unable to get staking private key %s", keyID, err)
		}

		if whichType == model.TxPubKeyHash && onlyP2PK {
			if script, err = model.NewP2PKScript(key.PubKey().Compressed()); err != nil {
				return nil, errors.NewStakeInvalidError("failed to build P2PK script", err)
			}
		}
	}

	if splitOutputs < 1 {
		splitOutputs = 1
	}

	if splitOutputs > MaxStakeSplitOutputs {
		return nil, errors.NewStakeInvalidError("stake %s: %d payout outputs, at most %d allowed", s.outpointFrom.StringShort(), splitOutputs, MaxStakeSplitOutputs)
	}

	if total < 0 {
		return nil, errors.NewTxValueOutOfRangeError("negative stake total %d", total)
	}

	share := total / model.Amount(splitOutputs)
	outs := make([]model.TxOut, splitOutputs)

	for i := range outs {
		outs[i] = model.NewTxOut(share, script)
	}

	outs[splitOutputs-1].Value += total - share*model.Amount(splitOutputs)

	return outs, nil
}

// ContextCheck applies the network's minimum age or depth rule to the staked output.
func (s *IdcStake) ContextCheck(height int32, blockTime uint32) error {
	if s.indexFrom == nil {
		return errors.NewStakeInvalidError("null indexFrom for stake %s", s.outpointFrom.StringShort())
	}

	if !s.params.HasStakeMinAgeOrDepth(height, blockTime, s.indexFrom.Height, s.indexFrom.Time) {
		s.logger.Debugf("[IdcStake] min age violation for %s - height=%d - time=%d, nHeightBlockFrom=%d, nTimeBlockFrom=%d",
			s.outpointFrom.StringShort(), height, blockTime, s.indexFrom.Height, s.indexFrom.Time)

		return errors.NewStakeMinAgeErrorWithData(&errors.StakeErrData{
			Hash:   s.outpointFrom.Hash.String(),
			Index:  s.outpointFrom.N,
			Height: s.indexFrom.Height,
			Time:   s.indexFrom.Time,
		}, "min age violation - height=%d - time=%d, nHeightBlockFrom=%d, nTimeBlockFrom=%d",
			height, blockTime, s.indexFrom.Height, s.indexFrom.Time)
	}

	return nil
}
