package database

import (
	"crypto"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Identity represents a party to a transaction. The string form of an
// identity is its canonical encoding and is what gets hashed and signed.
type Identity interface {
	String() string
	identity()
}

// =============================================================================

// Label represents a symbolic identity such as the genesis marker, the
// network sentinel, or the name of a miner.
type Label string

// Set of well known labels used by system generated transactions.
const (
	GenesisLabel Label = "Genesis"
	NetworkLabel Label = "Network"
)

// String returns the label.
func (l Label) String() string {
	return string(l)
}

func (Label) identity() {}

// =============================================================================

// KeyHandle represents an identity backed by a public key. The canonical
// encoding is computed once by the signature provider that owns the key.
type KeyHandle struct {
	key     crypto.PublicKey
	encoded string
}

// NewKeyHandle constructs a key handle for the specified public key.
func NewKeyHandle(p signature.Provider, publicKey crypto.PublicKey) (KeyHandle, error) {
	if publicKey == nil {
		return KeyHandle{}, errors.New("public key is missing")
	}

	encoded, err := p.EncodePublicKey(publicKey)
	if err != nil {
		return KeyHandle{}, err
	}

	return KeyHandle{key: publicKey, encoded: encoded}, nil
}

// ToKeyHandle parses the canonical encoding of a public key and constructs
// a key handle for it.
func ToKeyHandle(p signature.Provider, encoded string) (KeyHandle, error) {
	publicKey, err := p.DecodePublicKey(encoded)
	if err != nil {
		return KeyHandle{}, err
	}

	return NewKeyHandle(p, publicKey)
}

// PublicKey returns the public key behind the handle.
func (kh KeyHandle) PublicKey() crypto.PublicKey {
	return kh.key
}

// String returns the canonical encoding of the public key.
func (kh KeyHandle) String() string {
	return kh.encoded
}

func (KeyHandle) identity() {}

// =============================================================================

// ToIdentity converts a string provided by a client into an identity. Values
// the provider can decode as a public key become key handles, anything else
// is treated as a label.
func ToIdentity(p signature.Provider, s string) Identity {
	kh, err := ToKeyHandle(p, s)
	if err != nil {
		return Label(s)
	}

	return kh
}

// identityString returns the canonical string for the identity, handling
// an identity that was never set.
func identityString(id Identity) string {
	if id == nil {
		return ""
	}

	return id.String()
}

// isMissing reports whether the identity was never set or carries an empty
// encoding, like the zero value of a key handle.
func isMissing(id Identity) bool {
	return id == nil || id.String() == ""
}
