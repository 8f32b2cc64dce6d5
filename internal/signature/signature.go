// Package signature authenticates inbound requests signed with the HTTP Signatures scheme used by
// ActivityPub servers: the signer's public key is fetched from its keyId, and the signature is checked
// against the signing string rebuilt from the request.
package signature

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/conversions"
	"github.com/sidereusnuntius/readfed/internal/federation"
)

const RequestTarget = "(request-target)"

var (
	ErrMalformedHeader     = fmt.Errorf("%w: malformed signature header", federation.ErrAuthentication)
	ErrKeyUnavailable      = fmt.Errorf("%w: public key unavailable", federation.ErrAuthentication)
	ErrMissingSignedHeader = fmt.Errorf("%w: signed header missing from request", federation.ErrAuthentication)
	ErrSignatureInvalid    = fmt.Errorf("%w: invalid signature", federation.ErrAuthentication)
	// ErrActorMismatch is returned when a request is signed by a key of an actor other than the one the
	// activity claims.
	ErrActorMismatch = fmt.Errorf("%w: signer is not the activity's actor", federation.ErrAuthentication)
)

// Request holds the parts of an HTTP request covered by a signature.
type Request struct {
	Method string
	Path   string
	// Host is used for the host header, which Go servers remove from the header map.
	Host   string
	Header http.Header
}

// FromHTTP extracts the signed parts of an inbound request.
func FromHTTP(r *http.Request) Request {
	return Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Host:   r.Host,
		Header: r.Header,
	}
}

// Fetcher dereferences the signer's keyId.
type Fetcher interface {
	GetJSON(ctx context.Context, iri *url.URL) (map[string]any, error)
}

type Verifier struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewVerifier creates a verifier whose key fetches are bounded by timeout. A zero timeout leaves them bounded
// only by the caller's context.
func NewVerifier(fetcher Fetcher, timeout time.Duration) *Verifier {
	return &Verifier{
		fetcher: fetcher,
		timeout: timeout,
	}
}

// Params are the parameters of a Signature header.
type Params struct {
	KeyId     string
	Headers   []string
	Algorithm string
	Signature []byte
}

// Verify authenticates the request and returns the IRI of the actor owning the key it was signed with. Every
// returned error wraps one of ErrMalformedHeader, ErrKeyUnavailable, ErrMissingSignedHeader or
// ErrSignatureInvalid, which in turn wrap federation.ErrAuthentication.
func (v *Verifier) Verify(ctx context.Context, r Request) (*url.URL, error) {
	params, err := ParseHeader(r.Header.Get("Signature"))
	if err != nil {
		return nil, err
	}

	key, owner, err := v.fetchKey(ctx, params.KeyId)
	if err != nil {
		return nil, err
	}

	signed, err := SigningString(r, params.Headers)
	if err != nil {
		return nil, err
	}

	if err = verify(key, signed, params.Signature); err != nil {
		return nil, err
	}

	log.Debug().Str("keyId", params.KeyId).Str("owner", owner.String()).Msg("signature verified")
	return owner, nil
}

// ParseHeader parses a Signature header: a comma separated list of key="value" pairs, where values may
// themselves contain '='.
func ParseHeader(header string) (Params, error) {
	if header == "" {
		return Params{}, fmt.Errorf("%w: no Signature header", ErrMalformedHeader)
	}

	fields := make(map[string]string)
	for _, pair := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return Params{}, fmt.Errorf("%w: invalid pair %q", ErrMalformedHeader, pair)
		}
		fields[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"`)
	}

	keyId, headers, sig := fields["keyId"], fields["headers"], fields["signature"]
	switch {
	case keyId == "":
		return Params{}, fmt.Errorf("%w: keyId", ErrMalformedHeader)
	case headers == "":
		return Params{}, fmt.Errorf("%w: headers", ErrMalformedHeader)
	case sig == "":
		return Params{}, fmt.Errorf("%w: signature", ErrMalformedHeader)
	}

	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return Params{}, fmt.Errorf("%w: signature is not base64: %w", ErrMalformedHeader, err)
	}

	return Params{
		KeyId:     keyId,
		Headers:   strings.Fields(headers),
		Algorithm: fields["algorithm"],
		Signature: decoded,
	}, nil
}

// SigningString rebuilds the string the sender signed, one "name: value" line per signed header, in the
// order they were listed.
func SigningString(r Request, headers []string) (string, error) {
	lines := make([]string, 0, len(headers))
	for _, name := range headers {
		name = strings.ToLower(name)
		if name == RequestTarget {
			lines = append(lines, fmt.Sprintf("%s: %s %s", RequestTarget, strings.ToLower(r.Method), r.Path))
			continue
		}

		values := r.Header.Values(name)
		if len(values) == 0 && name == "host" && r.Host != "" {
			values = []string{r.Host}
		}
		if len(values) == 0 {
			return "", fmt.Errorf("%w: %s", ErrMissingSignedHeader, name)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(values, ", ")))
	}
	return strings.Join(lines, "\n"), nil
}

func (v *Verifier) fetchKey(ctx context.Context, keyId string) (crypto.PublicKey, *url.URL, error) {
	iri, err := url.Parse(keyId)
	if err != nil || !iri.IsAbs() {
		return nil, nil, fmt.Errorf("%w: keyId %q is not an absolute IRI", ErrMalformedHeader, keyId)
	}
	iri.Fragment = ""
	iri.RawFragment = ""

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	doc, err := v.fetcher.GetJSON(ctx, iri)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetching %s: %w", ErrKeyUnavailable, iri, err)
	}

	keyPem, ownerId := findKey(doc, keyId)
	if keyPem == "" {
		return nil, nil, fmt.Errorf("%w: %s has no publicKey.publicKeyPem", ErrKeyUnavailable, iri)
	}

	owner := iri
	if ownerId != "" {
		if owner, err = url.Parse(ownerId); err != nil || owner.Host != iri.Host {
			return nil, nil, fmt.Errorf("%w: %s claims owner %q", ErrKeyUnavailable, iri, ownerId)
		}
	}

	key, err := conversions.PublicKeyFromPem(keyPem)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	return key, owner, nil
}

// findKey finds the PEM encoded key in an actor document, and the actor owning it. The publicKey property
// may be a single key or a list, in which case the key whose id is keyId is preferred; a key document has
// its PEM and owner at the top level. The owner defaults to the id of the actor document.
func findKey(doc map[string]any, keyId string) (keyPem, owner string) {
	actor, _ := doc["id"].(string)
	pick := func(k map[string]any) (string, string) {
		keyPem, _ := k["publicKeyPem"].(string)
		owner, _ := k["owner"].(string)
		if owner == "" {
			owner = actor
		}
		return keyPem, owner
	}

	switch keys := doc["publicKey"].(type) {
	case map[string]any:
		return pick(keys)
	case []any:
		var first map[string]any
		for _, k := range keys {
			m, ok := k.(map[string]any)
			if !ok {
				continue
			}
			if id, _ := m["id"].(string); id == keyId {
				if keyPem, owner = pick(m); keyPem != "" {
					return keyPem, owner
				}
			}
			if first == nil {
				first = m
			}
		}
		if first != nil {
			return pick(first)
		}
		return "", ""
	}

	keyPem, _ = doc["publicKeyPem"].(string)
	owner, _ = doc["owner"].(string)
	return keyPem, owner
}

func verify(key crypto.PublicKey, signed string, sig []byte) error {
	switch k := key.(type) {
	case *rsa.PublicKey:
		digest := sha256.Sum256([]byte(signed))
		if err := rsa.VerifyPKCS1v15(k, crypto.SHA256, digest[:], sig); err != nil {
			return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
		}
		return nil
	case ed25519.PublicKey:
		if !ed25519.Verify(k, []byte(signed), sig) {
			return ErrSignatureInvalid
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported key type %T", ErrKeyUnavailable, key)
	}
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	return errors.Is(err, federation.ErrAuthentication)
}
