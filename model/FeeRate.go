package model

import (
	"fmt"
)

// FeeRate is a price per kilobyte of serialized transaction.
type FeeRate struct {
	perK Amount
}

// NewFeeRate derives the rate from a fee paid for a transaction of size bytes.
// A zero size yields a zero rate.
func NewFeeRate(feePaid Amount, size int) FeeRate {
	if size <= 0 {
		return FeeRate{}
	}

	return FeeRate{perK: feePaid * 1000 / Amount(size)}
}

// NewFeeRateFromPerK returns the rate of perK subunits per kilobyte.
func NewFeeRateFromPerK(perK Amount) FeeRate {
	return FeeRate{perK: perK}
}

// GetFee returns the fee for size bytes. A positive rate never yields a zero fee: if the
// proportional fee rounds down to zero the rate itself is charged.
func (f FeeRate) GetFee(size int) Amount {
	fee := f.perK * Amount(size) / 1000

	if fee == 0 && f.perK > 0 {
		fee = f.perK
	}

	return fee
}

// GetFeePerK returns the fee for one kilobyte.
func (f FeeRate) GetFeePerK() Amount {
	return f.GetFee(1000)
}

func (f FeeRate) Less(other FeeRate) bool {
	return f.perK < other.perK
}

func (f FeeRate) Equal(other FeeRate) bool {
	return f.perK == other.perK
}

// Add returns the sum of two rates.
func (f FeeRate) Add(other FeeRate) FeeRate {
	return FeeRate{perK: f.perK + other.perK}
}

func (f FeeRate) String() string {
	return fmt.Sprintf("%d.%06d %s/kB", f.perK/COIN, f.perK%COIN, CurrencyUnit)
}
