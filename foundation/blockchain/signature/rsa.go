package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// RSAPSSName is the registered name of the RSA-PSS provider.
const RSAPSSName = "rsa-pss"

// DefaultRSABits is the key size used by the default RSA-PSS provider.
const DefaultRSABits = 2048

// pssOptions uses the largest salt possible when signing and detects the
// salt length when verifying.
var pssOptions = rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

// RSAPSS signs sha256 digests with RSA using the probabilistic PSS padding
// scheme with an MGF1/SHA-256 mask.
type RSAPSS struct {
	bits int
}

// NewRSAPSS constructs an RSA-PSS provider generating keys of the
// specified size.
func NewRSAPSS(bits int) *RSAPSS {
	return &RSAPSS{bits: bits}
}

// Name returns the registered name of the provider.
func (*RSAPSS) Name() string {
	return RSAPSSName
}

// KeyExt returns the file extension used for private key files.
func (*RSAPSS) KeyExt() string {
	return ".pem"
}

// GenerateKey constructs a new RSA private key.
func (p *RSAPSS) GenerateKey() (crypto.Signer, error) {
	return rsa.GenerateKey(rand.Reader, p.bits)
}

// Sign uses the specified private key to sign the message.
func (*RSAPSS) Sign(privateKey crypto.Signer, message []byte) ([]byte, error) {
	pk, ok := privateKey.(*rsa.PrivateKey)
	if !ok || pk == nil {
		return nil, ErrKeyType
	}

	digest := sha256.Sum256(message)
	return rsa.SignPSS(rand.Reader, pk, crypto.SHA256, digest[:], &pssOptions)
}

// Verify checks the signature was produced for the message by the private
// key paired with the specified public key.
func (*RSAPSS) Verify(publicKey crypto.PublicKey, message []byte, sig []byte) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			valid = false
		}
	}()

	pk, ok := publicKey.(*rsa.PublicKey)
	if !ok || pk == nil || pk.N == nil {
		return false
	}

	digest := sha256.Sum256(message)
	return rsa.VerifyPSS(pk, crypto.SHA256, digest[:], sig, &pssOptions) == nil
}

// EncodePublicKey returns the PEM encoding of the PKIX form of the key.
func (*RSAPSS) EncodePublicKey(publicKey crypto.PublicKey) (string, error) {
	pk, ok := publicKey.(*rsa.PublicKey)
	if !ok || pk == nil {
		return "", ErrKeyType
	}

	der, err := x509.MarshalPKIXPublicKey(pk)
	if err != nil {
		return "", err
	}

	block := pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	}

	return string(pem.EncodeToMemory(&block)), nil
}

// DecodePublicKey parses a key produced by EncodePublicKey.
func (*RSAPSS) DecodePublicKey(encoded string) (crypto.PublicKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("public key is not PEM encoded")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	pk, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrKeyType
	}

	return pk, nil
}

// SaveKey writes the private key to the specified file in PKCS1 PEM form.
func (*RSAPSS) SaveKey(path string, privateKey crypto.Signer) error {
	pk, ok := privateKey.(*rsa.PrivateKey)
	if !ok || pk == nil {
		return ErrKeyType
	}

	block := pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(pk),
	}

	return os.WriteFile(path, pem.EncodeToMemory(&block), 0600)
}

// LoadKey reads a private key written by SaveKey.
func (*RSAPSS) LoadKey(path string) (crypto.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, fmt.Errorf("%s: private key is not PEM encoded", path)
	}

	return x509.ParsePKCS1PrivateKey(block.Bytes)
}
