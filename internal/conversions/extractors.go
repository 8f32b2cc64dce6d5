package conversions

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/sidereusnuntius/readfed/internal/federation"
)

func ExtractPublicKeyFromActor(actor WithPublicKeyProperty) (string, error) {
	pubKeyProp := actor.GetW3IDSecurityV1PublicKey()
	if pubKeyProp == nil || pubKeyProp.Len() == 0 {
		return "", fmt.Errorf("%w: public key", federation.ErrMissingProperty)
	}

	for it := pubKeyProp.Begin(); it != nil; it = it.Next() {
		if !it.IsW3IDSecurityV1PublicKey() {
			continue
		}
		keyPemProp := it.Get().GetW3IDSecurityV1PublicKeyPem()
		if keyPemProp != nil && keyPemProp.Get() != "" {
			return keyPemProp.Get(), nil
		}
	}
	return "", fmt.Errorf("%w: publicKeyPem", federation.ErrMissingProperty)
}

// PublicKeyFromPem parses the first PEM block of keyPem.
func PublicKeyFromPem(keyPem string) (crypto.PublicKey, error) {
	block, _ := pem.Decode([]byte(keyPem))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return ExtractPublicKeyFromPem(*block)
}

func ExtractPublicKeyFromPem(block pem.Block) (crypto.PublicKey, error) {
	var pubKey crypto.PublicKey
	var err error
	switch block.Type {
	case "PUBLIC KEY":
		pubKey, err = x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PUBLIC KEY":
		pubKey, err = x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		err = fmt.Errorf("unsupported type: %s", block.Type)
	}

	if err != nil {
		return nil, err
	}
	return pubKey, nil
}
