// Package database handles the blocks and transactions that make up the
// ledger and the rules for validating them.
package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Reason describes the kind of integrity violation found in a chain.
type Reason string

// Set of reasons a chain can fail validation.
const (
	ReasonBadHash        Reason = "bad hash"
	ReasonBadLinkage     Reason = "bad linkage"
	ReasonBadTransaction Reason = "bad transaction"
)

// ValidationError is returned when a block or one of its transactions
// violates the integrity of the chain. Tx is -1 when the violation is not
// specific to a transaction.
type ValidationError struct {
	Reason Reason
	Block  uint64
	Tx     int
	Err    error
}

func newValidationError(reason Reason, block uint64, tx int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Reason: reason,
		Block:  block,
		Tx:     tx,
		Err:    fmt.Errorf(format, args...),
	}
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if ve.Tx >= 0 {
		return fmt.Sprintf("%s: blk[%d]: tx[%d]: %s", ve.Reason, ve.Block, ve.Tx, ve.Err)
	}
	return fmt.Sprintf("%s: blk[%d]: %s", ve.Reason, ve.Block, ve.Err)
}

// Unwrap provides support for errors.Is and errors.As.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// GetValidationError returns the validation error inside the error chain
// or nil if there isn't one.
func GetValidationError(err error) *ValidationError {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve
}

// =============================================================================

// ValidateChain walks the blocks in order and returns the first integrity
// violation found. A nil error means every block and transaction passed.
func ValidateChain(p signature.Provider, blocks []Block, evHandler func(v string, args ...any)) error {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	if len(blocks) == 0 {
		return newValidationError(ReasonBadLinkage, 0, -1, "chain has no genesis block")
	}

	if err := validateGenesis(blocks[0]); err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(p, blocks[i-1], evHandler); err != nil {

			// Report the position in the chain, the stored number may be
			// the field that was tampered with.
			if ve := GetValidationError(err); ve != nil {
				ve.Block = uint64(i)
			}
			return err
		}
	}

	return nil
}

// validateGenesis checks the genesis block was not modified.
func validateGenesis(b Block) error {
	if b.Hash != b.ComputeHash() {
		return newValidationError(ReasonBadHash, 0, -1, "genesis block hash does not match its data")
	}

	if b.Number != 0 || b.PrevBlockHash != signature.ZeroHash {
		return newValidationError(ReasonBadLinkage, 0, -1, "genesis block must be number 0 with root parent %q", signature.ZeroHash)
	}

	for i, tx := range b.Trans {
		if tx.Kind != Genesis {
			return newValidationError(ReasonBadTransaction, 0, i, "genesis block holds a %s transaction", tx.Kind)
		}
	}

	return nil
}
