package database

import (
	"crypto"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Set of errors returned when validating a transaction.
var (
	ErrUnsigned        = errors.New("transaction is not signed")
	ErrBadSignature    = errors.New("transaction signature is invalid")
	ErrMissingIdentity = errors.New("transaction identity is missing")
)

// Placeholder signatures carried by system generated transactions. These
// transactions are exempt from verification by their kind.
const (
	GenesisSignature = "GenesisSignature"
	RewardSignature  = "NetworkSignaturePlaceholder"
)

// =============================================================================

// Kind identifies how a transaction came to exist and therefore how it
// must be validated.
type Kind uint8

// Set of transaction kinds. Only transfers require signature verification.
const (
	Transfer Kind = iota
	Genesis
	Reward
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Transfer:
		return "transfer"
	case Genesis:
		return "genesis"
	case Reward:
		return "reward"
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Kind      Kind
	From      Identity
	To        Identity
	Amount    uint64
	Signature []byte
}

// NewTx constructs a new unsigned transfer.
func NewTx(from Identity, to Identity, amount uint64) Tx {
	return Tx{
		Kind:   Transfer,
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewGenesisTx constructs the placeholder transaction held by the genesis block.
func NewGenesisTx() Tx {
	return Tx{
		Kind:      Genesis,
		From:      GenesisLabel,
		To:        GenesisLabel,
		Amount:    0,
		Signature: []byte(GenesisSignature),
	}
}

// NewRewardTx constructs the transaction paying the miner of a block.
func NewRewardTx(miner Identity, amount uint64) Tx {
	return Tx{
		Kind:      Reward,
		From:      NetworkLabel,
		To:        miner,
		Amount:    amount,
		Signature: []byte(RewardSignature),
	}
}

// Sign uses the specified private key to sign the canonical string of the
// transaction. Signing again replaces the previous signature.
func (tx *Tx) Sign(p signature.Provider, privateKey crypto.Signer) error {
	if tx.Kind != Transfer {
		return fmt.Errorf("%s transactions are not signed", tx.Kind)
	}

	from, ok := tx.From.(KeyHandle)
	if !ok {
		return errors.New("from identity is not a public key")
	}

	// The key must belong to the sender or the signature can never verify.
	signer, err := p.EncodePublicKey(privateKey.Public())
	if err != nil {
		return err
	}
	if signer != from.String() {
		return errors.New("private key does not belong to the from identity")
	}

	sig, err := p.Sign(privateKey, []byte(tx.String()))
	if err != nil {
		return err
	}

	tx.Signature = sig

	return nil
}

// Validate verifies the transaction names both parties and has a proper
// signature. Genesis and reward transactions are exempt.
func (tx Tx) Validate(p signature.Provider) error {
	switch tx.Kind {
	case Genesis, Reward:
		return nil
	case Transfer:
	default:
		return fmt.Errorf("unknown transaction %s", tx.Kind)
	}

	if isMissing(tx.From) {
		return fmt.Errorf("%w: from", ErrMissingIdentity)
	}

	if isMissing(tx.To) {
		return fmt.Errorf("%w: to", ErrMissingIdentity)
	}

	if len(tx.Signature) == 0 {
		return ErrUnsigned
	}

	from, ok := tx.From.(KeyHandle)
	if !ok {
		return fmt.Errorf("%w: from identity is not a public key", ErrBadSignature)
	}

	if !p.Verify(from.PublicKey(), []byte(tx.String()), tx.Signature) {
		return ErrBadSignature
	}

	return nil
}

// IsValid reports whether Validate succeeds.
func (tx Tx) IsValid(p signature.Provider) bool {
	return tx.Validate(p) == nil
}

// String returns the canonical string of the transaction. This is the
// exact payload that is signed and hashed into a block.
func (tx Tx) String() string {
	return fmt.Sprintf("From: %s, To: %s, Amount: %d", identityString(tx.From), identityString(tx.To), tx.Amount)
}
