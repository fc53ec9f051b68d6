package model

import (
	"go.uber.org/atomic"
)

type moneySupplySnapshot struct {
	supply Amount
	height int64
}

// MoneySupply caches the sum of the unspent output values and the chain height it was
// computed at. It is owned by whichever component recomputes the supply and is safe for
// concurrent use.
type MoneySupply struct {
	snapshot atomic.Pointer[moneySupplySnapshot]
}

// NewMoneySupply returns an accumulator holding zero at height zero.
func NewMoneySupply() *MoneySupply {
	ms := &MoneySupply{}
	ms.snapshot.Store(&moneySupplySnapshot{})

	return ms
}

// Update replaces the cached supply and height together.
func (ms *MoneySupply) Update(supply Amount, height int64) {
	ms.snapshot.Store(&moneySupplySnapshot{supply: supply, height: height})
}

func (ms *MoneySupply) Get() Amount {
	return ms.load().supply
}

// CacheHeight returns the height at which the cached supply was computed.
func (ms *MoneySupply) CacheHeight() int64 {
	return ms.load().height
}

func (ms *MoneySupply) load() *moneySupplySnapshot {
	if s := ms.snapshot.Load(); s != nil {
		return s
	}

	return &moneySupplySnapshot{}
}
