package model

// Amount is a monetary value in subunits. It is signed so that shielded value balances can be
// expressed, but outputs are only valid in [0, MaxMoney].
type Amount int64

const (
	// COIN is the number of subunits in one whole coin.
	COIN Amount = 1_000_000

	// CENT is one hundredth of a coin.
	CENT Amount = 10_000

	// CurrencyUnit is the ticker used when printing amounts and fee rates.
	CurrencyUnit = "IDC"
)

// MoneyRange reports whether v lies in [0, maxMoney].
func MoneyRange(v Amount, maxMoney Amount) bool {
	return v >= 0 && v <= maxMoney
}

// String formats the amount in whole coins with at least two decimals.
func (a Amount) String() string {
	return FormatMoney(a, false)
}

// addAmounts returns a+b, or false if the sum does not fit in an int64.
func addAmounts(a, b Amount) (Amount, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}

	return sum, true
}
