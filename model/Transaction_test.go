package model

import (
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/idc-chain/idcnode/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHash(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}

	return h
}

func testKeyID(b byte) KeyID {
	var id KeyID
	for i := range id {
		id[i] = b
	}

	return id
}

func newCoinbaseTx(value Amount) *MutableTransaction {
	m := NewMutableTransaction()
	m.AddInput(NewTxIn(NullOutPoint(), []byte{0x51}))
	m.AddOutput(NewTxOut(value, NewP2PKHScript(testKeyID(1))))

	return m
}

func newCoinStakeTx(stakeValue Amount) *MutableTransaction {
	m := NewMutableTransaction()
	m.AddInput(NewTxIn(NewOutPoint(testHash(7), 1), []byte{0x01, 0x02}))
	m.AddOutput(NewTxOut(0, nil))
	m.AddOutput(NewTxOut(stakeValue, NewP2PKHScript(testKeyID(2))))

	return m
}

func TestTransactionWireFormat(t *testing.T) {
	m := NewMutableTransaction()
	m.AddInput(NewTxIn(NullOutPoint(), []byte{0x51}))
	m.AddOutput(NewTxOut(COIN, nil))

	expected := "0100" + "0000" +
		"01" + strings.Repeat("00", 32) + "ffffffff" + "01" + "51" + "ffffffff" +
		"01" + "40420f0000000000" + "00" +
		"00000000"

	tx := m.Freeze()
	assert.Equal(t, expected, hex.EncodeToString(tx.Bytes()))
	assert.Equal(t, chainhash.DoubleHashH(tx.Bytes()), tx.Hash())
	assert.Equal(t, len(tx.Bytes()), tx.GetTotalSize())
}

func TestTransactionHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)

		assert.Equal(t, m.Hash(), m.Hash())
		assert.Equal(t, m.Freeze().Hash(), m.Freeze().Hash())
		assert.Equal(t, m.Hash(), m.Freeze().Hash())
	})

	t.Run("input order matters", func(t *testing.T) {
		a := NewMutableTransaction()
		a.AddInput(NewTxIn(NewOutPoint(testHash(1), 0), nil))
		a.AddInput(NewTxIn(NewOutPoint(testHash(2), 0), nil))
		a.AddOutput(NewTxOut(COIN, nil))

		b := NewMutableTransaction()
		b.AddInput(NewTxIn(NewOutPoint(testHash(2), 0), nil))
		b.AddInput(NewTxIn(NewOutPoint(testHash(1), 0), nil))
		b.AddOutput(NewTxOut(COIN, nil))

		assert.NotEqual(t, a.Freeze().Hash(), b.Freeze().Hash())
	})

	t.Run("zero value transaction", func(t *testing.T) {
		var tx Transaction
		assert.Equal(t, chainhash.Hash{}, tx.Hash())
		assert.False(t, tx.IsCoinStake())
		assert.False(t, tx.IsCoinBase())
	})

	t.Run("freeze copies the builder", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)
		tx := m.Freeze()
		hash := tx.Hash()

		m.Vout[1].Value = 5 * COIN
		m.Vin[0].ScriptSig[0] = 0xff

		assert.Equal(t, hash, tx.Hash())
		assert.Equal(t, 10*COIN, tx.Output(1).Value)
		assert.Equal(t, byte(0x01), tx.Input(0).ScriptSig[0])
		assert.Equal(t, hash, chainhash.DoubleHashH(tx.Bytes()))
		assert.NotEqual(t, hash, m.Hash())
	})

	t.Run("accessors return copies", func(t *testing.T) {
		tx := newCoinStakeTx(10 * COIN).Freeze()

		out := tx.Output(1)
		out.ScriptPubKey[3] = 0xee

		outs := tx.Outputs()
		outs[1].Value = 1

		mutable := tx.Mutable()
		mutable.Vout[1].Value = 2

		assert.Equal(t, 10*COIN, tx.Output(1).Value)
		assert.Equal(t, byte(2), tx.Output(1).ScriptPubKey[3])
		assert.Equal(t, tx.Hash(), chainhash.DoubleHashH(tx.Bytes()))
	})
}

func TestTransactionRoundTrip(t *testing.T) {
	legacy := newCoinStakeTx(10 * COIN)

	sapling := newCoinbaseTx(COIN)
	sapling.Version = TxVersionSapling
	sapling.SapData = &SaplingTxData{
		ValueBalance:    -3 * COIN,
		ShieldedSpends:  []SpendDescription{{Nullifier: testHash(9)}},
		ShieldedOutputs: []OutputDescription{{CMU: testHash(4)}, {CMU: testHash(5)}},
		BindingSig:      [BindingSigSize]byte{1, 2, 3},
	}

	special := newCoinbaseTx(COIN)
	special.Version = TxVersionSapling
	special.Type = TxTypeProReg
	special.ExtraPayload = []byte{0xde, 0xad, 0xbe, 0xef}

	emptyPayload := newCoinbaseTx(COIN)
	emptyPayload.Version = TxVersionSapling
	emptyPayload.Type = TxTypeProUpServ
	emptyPayload.ExtraPayload = []byte{}

	tests := map[string]*MutableTransaction{
		"legacy":        legacy,
		"sapling":       sapling,
		"special":       special,
		"empty payload": emptyPayload,
	}

	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			tx := m.Freeze()

			decoded, err := NewTransactionFromBytes(tx.Bytes())
			require.NoError(t, err)

			assert.Equal(t, tx.Hash(), decoded.Hash())
			assert.Equal(t, tx.Bytes(), decoded.Bytes())
			assert.Equal(t, tx.GetTotalSize(), decoded.GetTotalSize())
			assert.Equal(t, tx.HasExtraPayload(), decoded.HasExtraPayload())
			assert.Equal(t, tx.HasSaplingData(), decoded.HasSaplingData())
		})
	}

	t.Run("optional sections are ignored on legacy versions", func(t *testing.T) {
		m := newCoinbaseTx(COIN)
		withoutExtras := m.Freeze()

		m.SapData = &SaplingTxData{ValueBalance: 5}
		m.Type = TxTypeProReg
		m.ExtraPayload = []byte{1}

		assert.Equal(t, withoutExtras.Bytes()[4:], m.Freeze().Bytes()[4:])
	})

	t.Run("trailing bytes", func(t *testing.T) {
		b := append(legacy.Freeze().Bytes(), 0x00)

		_, err := NewTransactionFromBytes(b)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxParse))
	})

	t.Run("truncated", func(t *testing.T) {
		b := sapling.Freeze().Bytes()

		_, err := NewTransactionFromBytes(b[:len(b)-10])
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxParse))
	})

	t.Run("invalid optional flag", func(t *testing.T) {
		m := newCoinbaseTx(COIN)
		m.Version = TxVersionSapling
		b := m.Freeze().Bytes()
		b[len(b)-1] = 0x02

		_, err := NewTransactionFromBytes(b)
		require.Error(t, err)
	})
}

func TestIsCoinStake(t *testing.T) {
	t.Run("coinstake", func(t *testing.T) {
		tx := newCoinStakeTx(10 * COIN).Freeze()
		assert.True(t, tx.IsCoinStake())
		assert.False(t, tx.IsCoinBase())
	})

	t.Run("normal transaction", func(t *testing.T) {
		m := NewMutableTransaction()
		m.AddInput(NewTxIn(NewOutPoint(testHash(7), 1), nil))
		m.AddOutput(NewTxOut(COIN, nil))
		m.AddOutput(NewTxOut(2*COIN, nil))

		assert.False(t, m.Freeze().IsCoinStake())
	})

	t.Run("coinbase", func(t *testing.T) {
		tx := newCoinbaseTx(COIN).Freeze()
		assert.False(t, tx.IsCoinStake())
		assert.True(t, tx.IsCoinBase())
	})

	t.Run("null first input", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)
		m.Vin[0].PrevOut = NullOutPoint()

		assert.False(t, m.Freeze().IsCoinStake())
	})

	t.Run("single output", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)
		m.Vout = m.Vout[:1]

		assert.False(t, m.Freeze().IsCoinStake())
	})

	t.Run("non zero marker", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)
		m.Vout[0].Value = 1

		assert.False(t, m.Freeze().IsCoinStake())
	})

	t.Run("no inputs", func(t *testing.T) {
		m := NewMutableTransaction()
		m.AddOutput(NewTxOut(0, nil))
		m.AddOutput(NewTxOut(COIN, nil))

		assert.False(t, m.Freeze().IsCoinStake())
	})
}

func TestHasP2CSOutputs(t *testing.T) {
	m := newCoinStakeTx(10 * COIN)
	assert.False(t, m.Freeze().HasP2CSOutputs())

	m.AddOutput(NewTxOut(COIN, NewP2CSScript(testKeyID(3), testKeyID(4), false)))
	assert.True(t, m.Freeze().HasP2CSOutputs())
}

func TestGetValueOut(t *testing.T) {
	t.Run("sum", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)
		m.AddOutput(NewTxOut(3*COIN, nil))

		v, err := m.Freeze().GetValueOut()
		require.NoError(t, err)
		assert.Equal(t, 13*COIN, v)
	})

	t.Run("empty", func(t *testing.T) {
		v, err := NewMutableTransaction().Freeze().GetValueOut()
		require.NoError(t, err)
		assert.Equal(t, Amount(0), v)
	})

	t.Run("negative output", func(t *testing.T) {
		m := newCoinStakeTx(10 * COIN)
		m.AddOutput(NewTxOut(-1, nil))

		_, err := m.Freeze().GetValueOut()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxValueOutOfRange))
		assert.True(t, errors.IsValueRangeError(err))
	})

	t.Run("overflow", func(t *testing.T) {
		m := NewMutableTransaction()
		m.AddOutput(NewTxOut(math.MaxInt64, nil))
		m.AddOutput(NewTxOut(1, nil))

		_, err := m.Freeze().GetValueOut()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxValueOutOfRange))
	})

	t.Run("negative value balance adds to value out", func(t *testing.T) {
		m := newCoinbaseTx(COIN)
		m.Version = TxVersionSapling
		m.SapData = &SaplingTxData{ValueBalance: -2 * COIN}

		v, err := m.Freeze().GetValueOut()
		require.NoError(t, err)
		assert.Equal(t, 3*COIN, v)
	})

	t.Run("positive value balance is not value out", func(t *testing.T) {
		m := newCoinbaseTx(COIN)
		m.Version = TxVersionSapling
		m.SapData = &SaplingTxData{ValueBalance: 2 * COIN}

		tx := m.Freeze()

		v, err := tx.GetValueOut()
		require.NoError(t, err)
		assert.Equal(t, COIN, v)

		in, err := tx.GetShieldedValueIn()
		require.NoError(t, err)
		assert.Equal(t, 2*COIN, in)
	})

	t.Run("value balance overflow", func(t *testing.T) {
		m := NewMutableTransaction()
		m.Version = TxVersionSapling
		m.AddOutput(NewTxOut(math.MaxInt64, nil))
		m.SapData = &SaplingTxData{ValueBalance: -1}

		_, err := m.Freeze().GetValueOut()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxValueOutOfRange))
	})

	t.Run("most negative value balance", func(t *testing.T) {
		m := NewMutableTransaction()
		m.Version = TxVersionSapling
		m.SapData = &SaplingTxData{ValueBalance: math.MinInt64}

		_, err := m.Freeze().GetValueOut()
		require.Error(t, err)
	})

	t.Run("shielded data on a legacy version", func(t *testing.T) {
		m := newCoinbaseTx(COIN)
		m.SapData = &SaplingTxData{ValueBalance: -2 * COIN}

		_, err := m.Freeze().GetValueOut()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidVersion))

		m.SapData.ValueBalance = 2 * COIN

		_, err = m.Freeze().GetShieldedValueIn()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTxInvalidVersion))
	})
}

func TestShieldedPredicates(t *testing.T) {
	m := newCoinbaseTx(COIN)
	m.Version = TxVersionSapling
	m.SapData = &SaplingTxData{}

	tx := m.Freeze()
	assert.True(t, tx.IsSaplingVersion())
	assert.False(t, tx.HasSaplingData())
	assert.False(t, tx.IsShieldedTx())

	m.SapData.ShieldedOutputs = []OutputDescription{{}}

	tx = m.Freeze()
	assert.True(t, tx.HasSaplingData())
	assert.True(t, tx.IsShieldedTx())
	assert.False(t, tx.IsSpecialTx())
	assert.Contains(t, tx.String(), "vShieldedOutput.size=1")

	m.Type = TxTypeProReg
	m.ExtraPayload = []byte{1, 2}

	tx = m.Freeze()
	assert.True(t, tx.IsSpecialTx())
	assert.Contains(t, tx.String(), "extraPayload.size=2")
}

func TestCalculateModifiedSize(t *testing.T) {
	m := NewMutableTransaction()
	m.AddInput(NewTxIn(NewOutPoint(testHash(1), 0), make([]byte, 10)))
	m.AddInput(NewTxIn(NewOutPoint(testHash(2), 0), make([]byte, 200)))
	m.AddOutput(NewTxOut(COIN, nil))

	tx := m.Freeze()

	t.Run("explicit size", func(t *testing.T) {
		assert.Equal(t, 1000-(41+10)-(41+110), tx.CalculateModifiedSize(1000))
	})

	t.Run("serialized size", func(t *testing.T) {
		assert.Equal(t, tx.GetTotalSize()-(41+10)-(41+110), tx.CalculateModifiedSize(0))
	})

	t.Run("offset larger than size", func(t *testing.T) {
		assert.Equal(t, 100-(41+10), tx.CalculateModifiedSize(100))
		assert.Equal(t, 40, tx.CalculateModifiedSize(40))
	})

	t.Run("priority", func(t *testing.T) {
		modified := tx.CalculateModifiedSize(1000)
		assert.InDelta(t, 5000.0/float64(modified), tx.ComputePriority(5000, 1000), 1e-9)
		assert.Equal(t, float64(0), NewMutableTransaction().Freeze().ComputePriority(5000, 0))
	})
}

func TestTransactionString(t *testing.T) {
	tx := newCoinStakeTx(10 * COIN).Freeze()
	s := tx.String()

	assert.True(t, strings.HasPrefix(s, "CTransaction(hash="+tx.Hash().String()[:10]+", ver=1, type=0, vin.size=1, vout.size=2, nLockTime=0)"))
	assert.Contains(t, s, "CTxIn(COutPoint(")
	assert.Contains(t, s, "CTxOut(nValue=10.000000")
}
