// Package utils holds the key material helpers used when creating local actors and loading their keys.
package utils

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

const (
	publicKeyBlock  = "PUBLIC KEY"
	privateKeyBlock = "PRIVATE KEY"
)

var ErrInvalidKey = errors.New("invalid key")

// KeyPair is an actor's key pair, PEM encoded. Public is published in the actor document; Private never
// leaves the database.
type KeyPair struct {
	Public  string
	Private string
}

// NewKeyPair generates an RSA key pair of the given size. The public key is encoded as PKIX and the private
// key as PKCS #8.
func NewKeyPair(bits int) (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return KeyPair{}, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return KeyPair{}, err
	}

	pub, err := EncodePublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, err
	}

	return KeyPair{
		Public:  pub,
		Private: string(pem.EncodeToMemory(&pem.Block{Type: privateKeyBlock, Bytes: der})),
	}, nil
}

// EncodePublicKey encodes an RSA or Ed25519 public key as a PKIX PEM block.
func EncodePublicKey(key crypto.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicKeyBlock, Bytes: der})), nil
}

// ParsePrivateKey decodes a PKCS #8 private key, as stored by NewKeyPair.
func ParsePrivateKey(pemKey string) (crypto.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil || block.Type != privateKeyBlock {
		return nil, fmt.Errorf("%w: expected a %s block", ErrInvalidKey, privateKeyBlock)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return key, nil
}
