package errors

import "strconv"

// ERR is the numeric error kind carried by every *Error.
type ERR int32

// Codes are grouped in ranges so GetErrorCategory can classify them:
// 0-9 generic, 10-19 block, 30-49 transaction, 50-59 stake, 60-69 storage, 70-79 keys.
const (
	ERR_UNKNOWN          ERR = 0
	ERR_INVALID_ARGUMENT ERR = 1
	ERR_NOT_FOUND        ERR = 3
	ERR_PROCESSING       ERR = 4
	ERR_CONFIGURATION    ERR = 5
	ERR_CONTEXT_CANCELED ERR = 6
	ERR_ERROR            ERR = 9

	ERR_BLOCK_NOT_FOUND         ERR = 10
	ERR_BLOCK_INVALID           ERR = 11
	ERR_BLOCK_SIGNATURE_INVALID ERR = 12
	ERR_BLOCK_EXISTS            ERR = 13

	ERR_TX_NOT_FOUND          ERR = 30
	ERR_TX_INVALID            ERR = 31
	ERR_TX_VALUE_OUT_OF_RANGE ERR = 32
	ERR_TX_INVALID_VERSION    ERR = 33
	ERR_TX_PARSE              ERR = 34
	ERR_TX_IMMUTABLE          ERR = 35
	ERR_AMOUNT_PARSE          ERR = 36

	ERR_STAKE_INVALID   ERR = 50
	ERR_STAKE_MIN_AGE   ERR = 51
	ERR_STAKE_DUPLICATE ERR = 52

	ERR_STORAGE_UNAVAILABLE ERR = 60
	ERR_STORAGE_ERROR       ERR = 61

	ERR_KEY_NOT_FOUND ERR = 70
	ERR_KEY_INVALID   ERR = 71
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	3:  "NOT_FOUND",
	4:  "PROCESSING",
	5:  "CONFIGURATION",
	6:  "CONTEXT_CANCELED",
	9:  "ERROR",
	10: "BLOCK_NOT_FOUND",
	11: "BLOCK_INVALID",
	12: "BLOCK_SIGNATURE_INVALID",
	13: "BLOCK_EXISTS",
	30: "TX_NOT_FOUND",
	31: "TX_INVALID",
	32: "TX_VALUE_OUT_OF_RANGE",
	33: "TX_INVALID_VERSION",
	34: "TX_PARSE",
	35: "TX_IMMUTABLE",
	36: "AMOUNT_PARSE",
	50: "STAKE_INVALID",
	51: "STAKE_MIN_AGE",
	52: "STAKE_DUPLICATE",
	60: "STORAGE_UNAVAILABLE",
	61: "STORAGE_ERROR",
	70: "KEY_NOT_FOUND",
	71: "KEY_INVALID",
}

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}

var (
	ErrUnknown               = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument       = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound              = New(ERR_NOT_FOUND, "not found")
	ErrProcessing            = New(ERR_PROCESSING, "error processing")
	ErrConfiguration         = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled       = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError                 = New(ERR_ERROR, "generic error")
	ErrBlockNotFound         = New(ERR_BLOCK_NOT_FOUND, "block not found")
	ErrBlockInvalid          = New(ERR_BLOCK_INVALID, "block invalid")
	ErrBlockSignatureInvalid = New(ERR_BLOCK_SIGNATURE_INVALID, "block signature invalid")
	ErrBlockExists           = New(ERR_BLOCK_EXISTS, "block exists")
	ErrTxNotFound            = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid             = New(ERR_TX_INVALID, "tx invalid")
	ErrTxValueOutOfRange     = New(ERR_TX_VALUE_OUT_OF_RANGE, "value out of range")
	ErrTxInvalidVersion      = New(ERR_TX_INVALID_VERSION, "invalid transaction version")
	ErrTxParse               = New(ERR_TX_PARSE, "tx parse error")
	ErrTxImmutable           = New(ERR_TX_IMMUTABLE, "tx is immutable")
	ErrAmountParse           = New(ERR_AMOUNT_PARSE, "amount parse error")
	ErrStakeInvalid          = New(ERR_STAKE_INVALID, "stake invalid")
	ErrStakeMinAge           = New(ERR_STAKE_MIN_AGE, "stake min age violation")
	ErrStakeDuplicate        = New(ERR_STAKE_DUPLICATE, "stake already seen")
	ErrStorageUnavailable    = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageError          = New(ERR_STORAGE_ERROR, "storage error")
	ErrKeyNotFound           = New(ERR_KEY_NOT_FOUND, "key not found")
	ErrKeyInvalid            = New(ERR_KEY_INVALID, "key invalid")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewBlockNotFoundError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_NOT_FOUND, message, params...)
}
func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
func NewBlockSignatureInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_SIGNATURE_INVALID, message, params...)
}
func NewBlockExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_EXISTS, message, params...)
}
func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewTxValueOutOfRangeError(message string, params ...interface{}) error {
	return New(ERR_TX_VALUE_OUT_OF_RANGE, message, params...)
}
func NewTxInvalidVersionError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID_VERSION, message, params...)
}
func NewTxParseError(message string, params ...interface{}) error {
	return New(ERR_TX_PARSE, message, params...)
}
func NewTxImmutableError(message string, params ...interface{}) error {
	return New(ERR_TX_IMMUTABLE, message, params...)
}
func NewAmountParseError(message string, params ...interface{}) error {
	return New(ERR_AMOUNT_PARSE, message, params...)
}
func NewStakeInvalidError(message string, params ...interface{}) error {
	return New(ERR_STAKE_INVALID, message, params...)
}
func NewStakeMinAgeError(message string, params ...interface{}) error {
	return New(ERR_STAKE_MIN_AGE, message, params...)
}
func NewStakeDuplicateError(message string, params ...interface{}) error {
	return New(ERR_STAKE_DUPLICATE, message, params...)
}
func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewKeyNotFoundError(message string, params ...interface{}) error {
	return New(ERR_KEY_NOT_FOUND, message, params...)
}
func NewKeyInvalidError(message string, params ...interface{}) error {
	return New(ERR_KEY_INVALID, message, params...)
}
