// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/stake"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// FromLedger maps an error returned by the ledger packages to a trusted
// error with the matching status. Errors the caller caused become 4xx,
// anything else is returned untouched.
func FromLedger(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, state.ErrInvalidTransaction),
		errors.Is(err, database.ErrUnsigned),
		errors.Is(err, database.ErrBadSignature),
		errors.Is(err, database.ErrMissingIdentity):
		return NewTrusted(err, http.StatusBadRequest)
	case errors.Is(err, state.ErrBlockNotFound):
		return NewTrusted(err, http.StatusNotFound)
	case errors.Is(err, stake.ErrNoStake),
		errors.Is(err, stake.ErrStakeOverflow):
		return NewTrusted(err, http.StatusConflict)
	case errors.Is(err, worker.ErrQueueFull),
		errors.Is(err, worker.ErrShutdown):
		return NewTrusted(err, http.StatusServiceUnavailable)
	}

	return err
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap returns the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}
