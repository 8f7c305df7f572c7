package signature

import (
	"crypto"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Secp256k1Name is the registered name of the secp256k1 provider.
const Secp256k1Name = "secp256k1"

// Secp256k1 signs messages with ECDSA over the secp256k1 curve, the same
// way Ethereum and Bitcoin accounts do.
type Secp256k1 struct{}

// NewSecp256k1 constructs a secp256k1 provider.
func NewSecp256k1() *Secp256k1 {
	return &Secp256k1{}
}

// Name returns the registered name of the provider.
func (*Secp256k1) Name() string {
	return Secp256k1Name
}

// KeyExt returns the file extension used for private key files.
func (*Secp256k1) KeyExt() string {
	return ".ecdsa"
}

// GenerateKey constructs a new secp256k1 private key.
func (*Secp256k1) GenerateKey() (crypto.Signer, error) {
	return ethcrypto.GenerateKey()
}

// Sign uses the specified private key to sign the message. The signature is
// returned in the 65 byte [R|S|V] format.
func (*Secp256k1) Sign(privateKey crypto.Signer, message []byte) ([]byte, error) {
	pk, ok := privateKey.(*ecdsa.PrivateKey)
	if !ok || pk == nil {
		return nil, ErrKeyType
	}

	return ethcrypto.Sign(stamp(message), pk)
}

// Verify checks the signature was produced for the message by the private
// key paired with the specified public key.
func (*Secp256k1) Verify(publicKey crypto.PublicKey, message []byte, sig []byte) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()

	pk, ok := publicKey.(*ecdsa.PublicKey)
	if !ok || pk == nil || pk.X == nil || pk.Y == nil {
		return false
	}

	if len(sig) != ethcrypto.SignatureLength {
		return false
	}

	rs := sig[:ethcrypto.RecoveryIDOffset]
	return ethcrypto.VerifySignature(ethcrypto.FromECDSAPub(pk), stamp(message), rs)
}

// EncodePublicKey returns the hex encoding of the uncompressed public key.
func (*Secp256k1) EncodePublicKey(publicKey crypto.PublicKey) (string, error) {
	pk, ok := publicKey.(*ecdsa.PublicKey)
	if !ok || pk == nil || pk.X == nil {
		return "", ErrKeyType
	}

	return hexutil.Encode(ethcrypto.FromECDSAPub(pk)), nil
}

// DecodePublicKey parses a key produced by EncodePublicKey.
func (*Secp256k1) DecodePublicKey(encoded string) (crypto.PublicKey, error) {
	data, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, err
	}

	return ethcrypto.UnmarshalPubkey(data)
}

// SaveKey writes the private key to the specified file in hex form.
func (*Secp256k1) SaveKey(path string, privateKey crypto.Signer) error {
	pk, ok := privateKey.(*ecdsa.PrivateKey)
	if !ok || pk == nil {
		return ErrKeyType
	}

	return ethcrypto.SaveECDSA(path, pk)
}

// LoadKey reads a private key written by SaveKey.
func (*Secp256k1) LoadKey(path string) (crypto.Signer, error) {
	return ethcrypto.LoadECDSA(path)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the message with the
// ledger stamp embedded into the final hash.
func stamp(message []byte) []byte {

	// Hash the message into a 32 byte array. This will provide a data
	// length consistency with all messages.
	msgHash := ethcrypto.Keccak256(message)

	// This stamp is used so signatures we produce when signing messages
	// are always unique to the ledger.
	stamp := []byte("\x19Ledger Signed Message:\n32")

	return ethcrypto.Keccak256(stamp, msgHash)
}
