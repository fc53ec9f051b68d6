package model

// Coin is an unspent output together with where it was created.
type Coin struct {
	Out         TxOut
	Height      int32
	IsCoinBase  bool
	IsCoinStake bool
}

// NewCoin returns the coin for output n of tx confirmed at height.
func NewCoin(tx *Transaction, n int, height int32) *Coin {
	return &Coin{
		Out:         tx.Output(n),
		Height:      height,
		IsCoinBase:  tx.IsCoinBase(),
		IsCoinStake: tx.IsCoinStake(),
	}
}

func (c *Coin) IsSpent() bool {
	return c.Out.IsNull()
}
