package model

import (
	"testing"

	"github.com/idc-chain/idcnode/chaincfg"
	"github.com/idc-chain/idcnode/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		value    Amount
		plus     bool
		expected string
	}{
		{0, false, "0.00"},
		{(COIN / 10000) * 123456789, false, "12345.6789"},
		{COIN, true, "+1.00"},
		{-COIN, false, "-1.00"},
		{-COIN, true, "-1.00"},
		{COIN * 100000000, false, "100000000.00"},
		{COIN * 1000, false, "1000.00"},
		{COIN * 10, false, "10.00"},
		{COIN, false, "1.00"},
		{COIN / 10, false, "0.10"},
		{COIN / 100, false, "0.01"},
		{COIN / 1000, false, "0.001"},
		{COIN / 10000, false, "0.0001"},
		{COIN / 100000, false, "0.00001"},
		{COIN / 1000000, false, "0.000001"},
		{0, true, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(tt.value, tt.plus))
		})
	}

	t.Run("most negative value", func(t *testing.T) {
		assert.Equal(t, "-9223372036854.775808", FormatMoney(Amount(-9223372036854775808), false))
	})
}

func TestParseMoney(t *testing.T) {
	valid := []struct {
		input    string
		expected Amount
	}{
		{"0.0", 0},
		{"12345.6789", (COIN / 10000) * 123456789},
		{"100000000.00", COIN * 100000000},
		{"10000000.00", COIN * 10000000},
		{"1000.00", COIN * 1000},
		{"1.00", COIN},
		{"1", COIN},
		{"0.1", COIN / 10},
		{"0.01", COIN / 100},
		{"0.001", COIN / 1000},
		{"0.000001", COIN / 1000000},
		{" 7.5 ", 7*COIN + COIN/2},
		{"1e2", 100 * COIN},
	}

	for _, tt := range valid {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseMoney(tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	invalid := []string{
		"",
		"-1",
		"0.0000001",
		"92233720368.54775808",
		"1.",
		".5",
		"1e",
		"1.0x",
		"01",
	}

	for _, input := range invalid {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseMoney(input, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrAmountParse))
		})
	}

	t.Run("negative allowed", func(t *testing.T) {
		v, err := ParseMoney("-1.5", true)
		require.NoError(t, err)
		assert.Equal(t, -COIN-COIN/2, v)
	})
}

func TestMoneyRoundTrip(t *testing.T) {
	maxMoney := Amount(chaincfg.MainNetParams.MaxMoneyOut)

	for _, v := range []Amount{0, 1, COIN, COIN - 1, maxMoney, -COIN} {
		t.Run(FormatMoney(v, false), func(t *testing.T) {
			parsed, err := ParseMoney(FormatMoney(v, false), true)
			require.NoError(t, err)
			assert.Equal(t, v, parsed)

			parsed, err = ParseMoney(v.String(), true)
			require.NoError(t, err)
			assert.Equal(t, v, parsed)
		})
	}
}

func TestParseFixedPoint(t *testing.T) {
	valid := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"1", 100000000},
		{"0.0", 0},
		{"-0.1", -10000000},
		{"1.1", 110000000},
		{"1.10000000000000000", 110000000},
		{"1.1e1", 1100000000},
		{"1.1e-1", 11000000},
		{"1000", 100000000000},
		{"-1000", -100000000000},
		{"0.00000001", 1},
		{"0.0000000100000000", 1},
		{"-0.00000001", -1},
		{"1000000000.00000001", 100000000000000001},
		{"9999999999.99999999", 999999999999999999},
		{"-9999999999.99999999", -999999999999999999},
	}

	for _, tt := range valid {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseFixedPoint(tt.input, 8)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	invalid := []string{
		"",
		"-",
		"a-1000",
		"-a1000",
		"-1000a",
		"-01000",
		"00.1",
		".1",
		"--0.1",
		"0.000000001",
		"-0.000000001",
		"0.00000001000000001",
		"-10000000000.00000000",
		"10000000000.00000000",
		"-10000000000.00000001",
		"10000000000.00000001",
		"-10000000000.00000009",
		"10000000000.00000009",
		"-99999999999.99999999",
		"99999909999.09999999",
		"92233720368.54775807",
		"92233720368.54775808",
		"-92233720368.54775808",
		"-92233720368.54775809",
		"1.1e",
		"1.1e-",
		"1.",
	}

	for _, input := range invalid {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseFixedPoint(input, 8)
			require.Error(t, err)
		})
	}
}

func TestMoneyRange(t *testing.T) {
	assert.True(t, MoneyRange(0, 10))
	assert.True(t, MoneyRange(10, 10))
	assert.False(t, MoneyRange(11, 10))
	assert.False(t, MoneyRange(-1, 10))
}
