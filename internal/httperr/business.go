package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure so transports can react without string matching.
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindNotFound         Kind = "not_found"
	KindSlotTaken        Kind = "slot_taken"
	KindInvalidSlot      Kind = "invalid_slot"
	KindInvalidState     Kind = "invalid_state"
	KindStoreUnavailable Kind = "store_unavailable"
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func Validation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func NotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

// SlotTaken means the caller lost the race for the slot and must query availability again.
func SlotTaken() error {
	return BusinessError{Kind: KindSlotTaken, Code: "slot_taken"}
}

func InvalidSlot(code string) error {
	return BusinessError{Kind: KindInvalidSlot, Code: code}
}

func InvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

// StoreUnavailable wraps a transient storage failure. The attempt did not commit.
func StoreUnavailable(err error) error {
	return BusinessError{Kind: KindStoreUnavailable, Code: "store_unavailable", Err: err}
}

func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
