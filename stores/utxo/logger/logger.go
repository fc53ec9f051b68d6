// Package logger wraps a utxo.Store and logs every call with its result and call site.
package logger

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/stores/utxo"
	"github.com/idc-chain/idcnode/ulogger"
)

const modulePath = "github.com/idc-chain/idcnode/"

type Store struct {
	logger ulogger.Logger
	store  utxo.Store
}

var _ utxo.Store = (*Store)(nil)

func New(logger ulogger.Logger, store utxo.Store) *Store {
	return &Store{
		logger: logger,
		store:  store,
	}
}

func caller() string {
	var callers []string

	for i := 0; i < 3; i++ {
		pc, file, line, ok := runtime.Caller(2 + i)
		if !ok {
			break
		}

		if idx := strings.Index(file, modulePath); idx >= 0 {
			file = file[idx+len(modulePath):]
		} else {
			file = filepath.Base(file)
		}

		funcName := runtime.FuncForPC(pc).Name()
		funcPaths := strings.Split(funcName, "/")
		funcName = funcPaths[len(funcPaths)-1]

		callers = append(callers, fmt.Sprintf("called from %s: %s:%d", funcName, file, line))
	}

	return strings.Join(callers, ",")
}

func coinString(coin *model.Coin) string {
	if coin == nil {
		return "<nil>"
	}

	return fmt.Sprintf("{%s, height %d, coinbase %t, coinstake %t}", coin.Out.String(), coin.Height, coin.IsCoinBase, coin.IsCoinStake)
}

func (s *Store) GetCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error) {
	coin, err := s.store.GetCoin(ctx, outpoint)
	s.logger.Infof("[UTXOStore][logger][GetCoin] outpoint %s coin %s err %v : %s", outpoint.StringShort(), coinString(coin), err, caller())

	return coin, err
}

func (s *Store) SpendCoin(ctx context.Context, outpoint model.OutPoint) (*model.Coin, error) {
	coin, err := s.store.SpendCoin(ctx, outpoint)
	s.logger.Infof("[UTXOStore][logger][SpendCoin] outpoint %s coin %s err %v : %s", outpoint.StringShort(), coinString(coin), err, caller())

	return coin, err
}

func (s *Store) AddTransaction(ctx context.Context, tx *model.Transaction, height int32, blockHash chainhash.Hash) error {
	err := s.store.AddTransaction(ctx, tx, height, blockHash)

	inputDetails := make([]string, tx.InputCount())
	for i, in := range tx.Inputs() {
		inputDetails[i] = fmt.Sprintf("{Input %d: %s}", i, in.PrevOut.StringShort())
	}

	outputDetails := make([]string, tx.OutputCount())
	for i, out := range tx.Outputs() {
		outputDetails[i] = fmt.Sprintf("{Output %d: Value %d, ScriptPubKey %x}", i, out.Value, []byte(out.ScriptPubKey))
	}

	s.logger.Infof("[UTXOStore][logger][AddTransaction] tx %s, inputs: [%s], outputs: [%s], isCoinbase %t, isCoinstake %t, height %d, block %s, err %v : %s",
		tx.Hash(),
		strings.Join(inputDetails, ", "),
		strings.Join(outputDetails, ", "),
		tx.IsCoinBase(),
		tx.IsCoinStake(),
		height,
		blockHash,
		err,
		caller())

	return err
}

func (s *Store) GetTransaction(ctx context.Context, hash chainhash.Hash) (*model.Transaction, chainhash.Hash, error) {
	tx, blockHash, err := s.store.GetTransaction(ctx, hash)
	s.logger.Infof("[UTXOStore][logger][GetTransaction] hash %s block %s err %v : %s", hash, blockHash, err, caller())

	return tx, blockHash, err
}

func (s *Store) ForEach(ctx context.Context, fn func(outpoint model.OutPoint, coin *model.Coin) bool) error {
	visited := 0

	err := s.store.ForEach(ctx, func(outpoint model.OutPoint, coin *model.Coin) bool {
		visited++
		return fn(outpoint, coin)
	})

	s.logger.Infof("[UTXOStore][logger][ForEach] visited %d err %v : %s", visited, err, caller())

	return err
}
