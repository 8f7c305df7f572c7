// Package signature provides helper functions for handling the ledger
// signature and hashing needs.
package signature

import (
	"crypto"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ZeroHash represents the root sentinel used as the previous block hash
// of the genesis block.
const ZeroHash string = "0"

// ErrKeyType is returned when a key handed to a provider was not produced
// by that provider.
var ErrKeyType = errors.New("key type not supported by provider")

// =============================================================================

// Provider represents the behavior required to generate keys, sign payloads
// and verify signatures. Verify must fail closed: any problem with the key
// or signature is reported as false.
type Provider interface {
	Name() string
	KeyExt() string
	GenerateKey() (crypto.Signer, error)
	Sign(privateKey crypto.Signer, message []byte) ([]byte, error)
	Verify(publicKey crypto.PublicKey, message []byte, sig []byte) bool
	EncodePublicKey(publicKey crypto.PublicKey) (string, error)
	DecodePublicKey(encoded string) (crypto.PublicKey, error)
	SaveKey(path string, privateKey crypto.Signer) error
	LoadKey(path string) (crypto.Signer, error)
}

// New constructs the provider registered under the specified name.
func New(name string) (Provider, error) {
	switch name {
	case RSAPSSName:
		return NewRSAPSS(DefaultRSABits), nil
	case Secp256k1Name:
		return NewSecp256k1(), nil
	}

	return nil, fmt.Errorf("unknown signature provider %q", name)
}

// =============================================================================

// Hash returns a unique hex encoded sha256 string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
