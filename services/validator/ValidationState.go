package validator

import (
	"fmt"
)

type validationMode int

const (
	modeValid validationMode = iota
	modeInvalid
	modeError
)

// ValidationState records why a transaction or block was rejected. The reject reason is a short
// stable string suitable for peers and logs; the error carries the detail.
type ValidationState struct {
	mode   validationMode
	reason string
	dos    int
	err    error
}

// Invalid marks the state as failing consensus and returns err.
func (s *ValidationState) Invalid(reason string, dos int, err error) error {
	s.mode = modeInvalid
	s.reason = reason
	s.dos = dos
	s.err = err

	return err
}

// Error marks the state as failed for a reason unrelated to consensus, e.g. a store failure.
func (s *ValidationState) Error(reason string, err error) error {
	s.mode = modeError
	s.reason = reason
	s.err = err

	return err
}

func (s *ValidationState) IsValid() bool {
	return s.mode == modeValid
}

func (s *ValidationState) IsInvalid() bool {
	return s.mode == modeInvalid
}

func (s *ValidationState) IsError() bool {
	return s.mode == modeError
}

func (s *ValidationState) GetRejectReason() string {
	return s.reason
}

// GetDoS returns the misbehaviour score of an invalid candidate.
func (s *ValidationState) GetDoS() int {
	return s.dos
}

func (s *ValidationState) Err() error {
	return s.err
}

func (s *ValidationState) String() string {
	switch s.mode {
	case modeInvalid:
		return fmt.Sprintf("invalid: %s (dos=%d): %v", s.reason, s.dos, s.err)
	case modeError:
		return fmt.Sprintf("error: %s: %v", s.reason, s.err)
	}

	return "valid"
}
