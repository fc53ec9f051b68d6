package errors

import (
	"encoding/json"
	"fmt"
)

// ErrDataI is an interface for error data that can be set, retrieved, and encoded.
type ErrDataI interface {
	EncodeErrorData() []byte
	Error() string
	GetData(key string) interface{}
	SetData(key string, value interface{})
}

// ErrData is a generic error data structure that implements the ErrDataI interface.
type ErrData map[string]interface{}

func (e *ErrData) Error() string {
	return fmt.Sprintf(" %v", *e)
}

func (e *ErrData) SetData(key string, value interface{}) {
	if e == nil {
		return
	}

	(*e)[key] = value
}

func (e *ErrData) GetData(key string) interface{} {
	if e == nil {
		return nil
	}

	return (*e)[key]
}

// EncodeErrorData encodes the error data as JSON.
func (e *ErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

// StakeErrData describes the stake input a stake error refers to.
type StakeErrData struct {
	Hash   string `json:"hash"`
	Index  uint32 `json:"index"`
	Height int32  `json:"height"`
	Time   uint32 `json:"time"`
}

func (e *StakeErrData) Error() string {
	return fmt.Sprintf("stake %s:%d (height %d, time %d)", e.Hash, e.Index, e.Height, e.Time)
}

func (e *StakeErrData) SetData(_ string, _ interface{}) {}

func (e *StakeErrData) GetData(key string) interface{} {
	switch key {
	case "hash":
		return e.Hash
	case "index":
		return e.Index
	case "height":
		return e.Height
	case "time":
		return e.Time
	}

	return nil
}

func (e *StakeErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

// NewStakeMinAgeErrorWithData returns a stake min age error carrying the offending stake details.
func NewStakeMinAgeErrorWithData(data *StakeErrData, message string, params ...interface{}) error {
	err := New(ERR_STAKE_MIN_AGE, message, params...)
	err.data = data

	return err
}

// GetErrorData decodes previously encoded error data for the given code.
func GetErrorData(code ERR, dataBytes []byte) (ErrDataI, error) {
	var errData ErrDataI

	switch code {
	case ERR_STAKE_MIN_AGE:
		errData = &StakeErrData{}
	default:
		errData = &ErrData{}
	}

	if err := json.Unmarshal(dataBytes, errData); err != nil {
		return errData, err
	}

	return errData, nil
}
