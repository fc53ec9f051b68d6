package stakeinput

import (
	"github.com/idc-chain/idcnode/errors"
	"github.com/idc-chain/idcnode/model"
	"github.com/idc-chain/idcnode/settings"
)

// MaxStakeSplitOutputs bounds the number of payout outputs of a coinstake.
const MaxStakeSplitOutputs = 48

// StakeSplitCount returns how many outputs a coinstake paying total should have: one per
// threshold of value, at least one and at most maxOutputs. A maxOutputs outside
// [1, MaxStakeSplitOutputs] is MaxStakeSplitOutputs. A zero threshold disables splitting.
func StakeSplitCount(total model.Amount, threshold model.Amount, maxOutputs int) int {
	if threshold <= 0 || total <= 0 {
		return 1
	}

	if maxOutputs <= 0 || maxOutputs > MaxStakeSplitOutputs {
		maxOutputs = MaxStakeSplitOutputs
	}

	n := total / threshold
	if n <= 1 {
		return 1
	}

	if n > model.Amount(maxOutputs) {
		return maxOutputs
	}

	return int(n)
}

// CreateCoinStake builds the coinstake transaction spending stake: the stake input, the zero
// value marker output and the payout outputs carrying the staked value plus reward.
func CreateCoinStake(stake StakeInput, wallet Wallet, reward model.Amount, onlyP2PK bool, splitOutputs int) (*model.MutableTransaction, error) {
	txIn, err := stake.CreateTxIn(wallet, nil)
	if err != nil {
		return nil, err
	}

	total := stake.GetValue() + reward
	if reward < 0 || total < stake.GetValue() {
		return nil, errors.NewTxValueOutOfRangeError("stake value %d plus reward %d out of range", stake.GetValue(), reward)
	}

	outs, err := stake.CreateTxOuts(wallet, total, onlyP2PK, splitOutputs)
	if err != nil {
		return nil, err
	}

	m := model.NewMutableTransaction()
	m.AddInput(txIn)
	m.AddOutput(model.NewTxOut(0, nil))

	for _, out := range outs {
		m.AddOutput(out)
	}

	return m, nil
}

// CreateCoinStakeWithSettings is CreateCoinStake with the payout split and script type taken
// from the staking settings.
func CreateCoinStakeWithSettings(stake StakeInput, wallet Wallet, reward model.Amount, stakeSettings settings.StakeSettings) (*model.MutableTransaction, error) {
	splitOutputs := StakeSplitCount(stake.GetValue()+reward, model.Amount(stakeSettings.SplitThreshold), stakeSettings.MaxSplitOutputs)

	return CreateCoinStake(stake, wallet, reward, stakeSettings.OnlyP2PK, splitOutputs)
}
