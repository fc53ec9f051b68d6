package blocksignature

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/stores/keystore/memory"
	"github.com/idc-chain/idcnode/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func push(data []byte) []byte {
	return append([]byte{byte(len(data))}, data...)
}

// fakeSig stands in for the DER signature plus sighash byte of a stake input.
func fakeSig(n int) []byte {
	return bytes.Repeat([]byte{0x30}, n)
}

func newKey(t *testing.T, ks *memory.Memory) (*bec.PrivateKey, model.KeyID) {
	t.Helper()

	priv, err := bec.NewPrivateKey()
	require.NoError(t, err)

	keyID, err := ks.AddKey(priv)
	require.NoError(t, err)

	return priv, keyID
}

func coinbase(script []byte) *model.Transaction {
	m := model.NewMutableTransaction()
	m.AddInput(model.NewTxIn(model.NullOutPoint(), []byte{0x51}))
	m.AddOutput(model.NewTxOut(0, script))

	return m.Freeze()
}

func coinStake(scriptSig, payout []byte) *model.Transaction {
	m := model.NewMutableTransaction()
	m.AddInput(model.NewTxIn(model.NewOutPoint(chainhash.DoubleHashH([]byte("stake")), 1), scriptSig))
	m.AddOutput(model.NewTxOut(0, nil))
	m.AddOutput(model.NewTxOut(10*model.COIN, payout))

	return m.Freeze()
}

func newBlock(txs ...*model.Transaction) *model.Block {
	b := model.NewBlock(&model.BlockHeader{
		Version: 7,
		Time:    1_600_000_000,
		Bits:    0x1e0ffff0,
	}, txs)
	b.Header.HashMerkleRoot = b.BuildMerkleRoot()

	return b
}

func TestProofOfWork(t *testing.T) {
	ks := memory.New()
	_, keyID := newKey(t, ks)

	block := newBlock(coinbase(nil), coinbase(model.NewP2PKHScript(keyID)))
	require.True(t, block.IsProofOfWork())

	require.NoError(t, CheckBlockSignature(block))

	t.Run("signing uses the first recognized coinbase output", func(t *testing.T) {
		pow := newBlock(coinbase(model.NewP2PKHScript(keyID)))
		require.NoError(t, SignBlock(pow, ks))
		assert.NotEmpty(t, pow.BlockSig)

		err := CheckBlockSignature(pow)
		assert.True(t, errors.Is(err, errors.ErrBlockSignatureInvalid))
	})

	t.Run("no key output", func(t *testing.T) {
		err := SignBlock(newBlock(coinbase(nil)), ks)
		assert.True(t, errors.Is(err, errors.ErrKeyNotFound))
	})
}

func TestProofOfStakeP2PK(t *testing.T) {
	ks := memory.New()
	priv, _ := newKey(t, ks)

	payout, err := model.NewP2PKScript(priv.PubKey().Compressed())
	require.NoError(t, err)

	block := newBlock(coinbase(nil), coinStake(push(fakeSig(71)), payout))
	require.True(t, block.IsProofOfStake())

	err = CheckBlockSignature(block)
	assert.True(t, errors.Is(err, errors.ErrBlockSignatureInvalid), "empty signature")

	require.NoError(t, SignBlock(block, ks))
	require.NoError(t, CheckBlockSignature(block))

	t.Run("signature over another block", func(t *testing.T) {
		other := newBlock(coinbase([]byte{0x6a}), coinStake(push(fakeSig(71)), payout))
		other.BlockSig = block.BlockSig

		assert.True(t, errors.Is(CheckBlockSignature(other), errors.ErrBlockSignatureInvalid))
	})

	t.Run("garbage signature", func(t *testing.T) {
		tampered := newBlock(block.Txs...)
		tampered.BlockSig = []byte{0x30, 0x01, 0x02}

		assert.True(t, errors.Is(CheckBlockSignature(tampered), errors.ErrBlockSignatureInvalid))
	})
}

func TestProofOfStakeP2PKH(t *testing.T) {
	ks := memory.New()
	priv, keyID := newKey(t, ks)
	payout := model.NewP2PKHScript(keyID)

	scriptSig := append(push(fakeSig(71)), push(priv.PubKey().Compressed())...)

	block := newBlock(coinbase(nil), coinStake(scriptSig, payout))
	require.NoError(t, SignBlock(block, ks))
	require.NoError(t, CheckBlockSignature(block))

	t.Run("signed by a different key", func(t *testing.T) {
		other, err := bec.NewPrivateKey()
		require.NoError(t, err)

		forged := newBlock(block.Txs...)
		require.NoError(t, SignBlockWithKey(forged, other))

		assert.True(t, errors.Is(CheckBlockSignature(forged), errors.ErrBlockSignatureInvalid))
	})

	t.Run("missing key", func(t *testing.T) {
		unsigned := newBlock(block.Txs...)

		err := SignBlock(unsigned, memory.New())
		assert.True(t, errors.Is(err, errors.ErrKeyNotFound))
		assert.Empty(t, unsigned.BlockSig)
	})

	t.Run("truncated scriptSig", func(t *testing.T) {
		for _, scriptSig := range [][]byte{nil, {0x47}, push(fakeSig(71))} {
			truncated := newBlock(coinbase(nil), coinStake(scriptSig, payout))
			require.NoError(t, SignBlockWithKey(truncated, priv))

			assert.True(t, errors.Is(CheckBlockSignature(truncated), errors.ErrBlockSignatureInvalid))
		}
	})
}

func TestProofOfStakeP2PKRedeemWithP2PKHPayout(t *testing.T) {
	ks := memory.New()
	priv, keyID := newKey(t, ks)

	scriptSig := push(fakeSig(72))
	require.Len(t, scriptSig, 73)

	block := newBlock(coinbase(nil), coinStake(scriptSig, model.NewP2PKHScript(keyID)))
	require.NoError(t, SignBlockWithKey(block, priv))

	err := CheckBlockSignature(block)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBlockSignatureInvalid))
}

func TestProofOfStakeP2CS(t *testing.T) {
	ks := memory.New()
	priv, stakerID := newKey(t, ks)

	var ownerID model.KeyID
	ownerID[0] = 0x99

	payout := model.NewP2CSScript(stakerID, ownerID, false)

	scriptSig := push(fakeSig(71))
	scriptSig = append(scriptSig, push([]byte{0x51})...)
	scriptSig = append(scriptSig, push(priv.PubKey().Compressed())...)

	block := newBlock(coinbase(nil), coinStake(scriptSig, payout))
	require.NoError(t, SignBlock(block, ks))
	require.NoError(t, CheckBlockSignature(block))

	t.Run("flag missing", func(t *testing.T) {
		short := newBlock(coinbase(nil), coinStake(push(fakeSig(71)), payout))
		require.NoError(t, SignBlockWithKey(short, priv))

		assert.True(t, errors.Is(CheckBlockSignature(short), errors.ErrBlockSignatureInvalid))
	})
}

func TestProofOfStakeNonStandardPayout(t *testing.T) {
	priv, err := bec.NewPrivateKey()
	require.NoError(t, err)

	block := newBlock(coinbase(nil), coinStake(push(fakeSig(71)), []byte{0x51}))
	require.True(t, block.IsProofOfStake())
	require.NoError(t, SignBlockWithKey(block, priv))

	assert.True(t, errors.Is(CheckBlockSignature(block), errors.ErrBlockSignatureInvalid))

	v := NewVerifier(ulogger.TestLogger{})
	assert.Error(t, v.CheckBlockSignature(block))
}
