package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")
	require.NotNil(t, err)
	require.Equal(t, ERR_NOT_FOUND, err.Code())
	require.Equal(t, "resource not found", err.Message())

	secondErr := New(ERR_INVALID_ARGUMENT, "[CheckTransaction][%s] bad output", "_test_string_", err)
	thirdErr := New(ERR_TX_VALUE_OUT_OF_RANGE, "[CheckTransaction][%s] value out of range", "_test_string_", secondErr)
	anotherErr := New(ERR_TX_VALUE_OUT_OF_RANGE, "another value error")
	fourthErr := New(ERR_PROCESSING, "older error", thirdErr)
	fifthErr := New(ERR_BLOCK_INVALID, "block has invalid tx", fourthErr)

	require.True(t, anotherErr.Is(thirdErr))
	require.True(t, fourthErr.Is(New(ERR_TX_VALUE_OUT_OF_RANGE, "")))
	require.True(t, fourthErr.Is(ErrTxValueOutOfRange))
	require.True(t, fourthErr.Is(err))
	require.True(t, fifthErr.Is(thirdErr))

	require.False(t, anotherErr.Is(fourthErr))
	require.False(t, fifthErr.Is(ErrBlockNotFound))
}

func Test_FormatParams(t *testing.T) {
	err := New(ERR_TX_INVALID, "tx %s has %d outputs", "abc", 3)
	assert.Equal(t, "tx abc has 3 outputs", err.Message())
	assert.Nil(t, err.WrappedErr())
}

func Test_WrapStdError(t *testing.T) {
	err := NewStorageError("failed to read block index", context.Canceled)

	assert.True(t, Is(err, ErrStorageError))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, IsContextError(err))
	assert.Equal(t, "context", GetErrorCategory(err))
}

func Test_FmtWrapped(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")
	fmtError := fmt.Errorf("error: %w", err)

	var tErr *Error
	require.True(t, As(fmtError, &tErr))
	assert.Equal(t, ERR_NOT_FOUND, tErr.Code())
	assert.Equal(t, ERR_NOT_FOUND, CodeOf(fmtError))
	assert.Equal(t, ERR_UNKNOWN, CodeOf(errors.New("plain")))
}

func Test_InvalidCode(t *testing.T) {
	err := New(ERR(999), "whatever")
	assert.Equal(t, "invalid error code", err.Message())
	assert.Equal(t, "999", ERR(999).String())
}

func Test_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, "none"},
		{"block", NewBlockSignatureInvalidError("bad sig"), "block"},
		{"tx", NewTxValueOutOfRangeError("negative"), "transaction"},
		{"stake", NewStakeMinAgeError("too young"), "stake"},
		{"storage", NewStorageError("db down"), "storage"},
		{"key", NewKeyNotFoundError("missing"), "key"},
		{"plain", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCategory(tt.err))
		})
	}
}

func Test_ValueRange(t *testing.T) {
	assert.True(t, IsValueRangeError(NewTxValueOutOfRangeError("too large")))
	assert.True(t, IsValueRangeError(NewBlockInvalidError("wrapped", NewTxValueOutOfRangeError("too large"))))
	assert.False(t, IsValueRangeError(NewTxInvalidError("other")))
	assert.False(t, IsValueRangeError(nil))
}

func Test_StakeErrData(t *testing.T) {
	data := &StakeErrData{Hash: "00ff", Index: 1, Height: 10, Time: 1600000000}
	err := NewStakeMinAgeErrorWithData(data, "min age violation")

	var tErr *Error
	require.True(t, As(err, &tErr))
	assert.Equal(t, int32(10), tErr.GetData("height"))

	var stakeData *StakeErrData
	require.True(t, AsData(err, &stakeData))
	assert.Equal(t, "00ff", stakeData.Hash)

	decoded, decodeErr := GetErrorData(ERR_STAKE_MIN_AGE, data.EncodeErrorData())
	require.NoError(t, decodeErr)
	assert.Equal(t, data, decoded)
}

func Test_SetData(t *testing.T) {
	err := New(ERR_TX_INVALID, "bad tx")
	err.SetData("reason", "bad-txns-vout-empty")

	assert.Equal(t, "bad-txns-vout-empty", err.GetData("reason"))
	assert.Contains(t, err.Error(), "bad-txns-vout-empty")
}

func Test_Join(t *testing.T) {
	assert.Nil(t, Join(nil, nil))
	assert.Equal(t, "a, b", Join(errors.New("a"), nil, errors.New("b")).Error())
}
