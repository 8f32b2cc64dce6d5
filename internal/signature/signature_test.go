package signature

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"code.superseriousbusiness.org/httpsig"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/federation"
	"github.com/sidereusnuntius/readfed/internal/utils"
)

const actorIRI = "https://remote.example/user/rat"
const keyId = actorIRI + "#main-key"

var rsaKey *rsa.PrivateKey
var rsaPem string
var ctx = context.Background()

func TestMain(m *testing.M) {
	var err error
	rsaKey, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
	}
	rsaPem, err = utils.EncodePublicKey(&rsaKey.PublicKey)
	if err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
	}

	m.Run()
}

type fetcher struct {
	docs  map[string]map[string]any
	calls []string
	err   error
}

func (f *fetcher) GetJSON(ctx context.Context, iri *url.URL) (map[string]any, error) {
	f.calls = append(f.calls, iri.String())
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[iri.String()]
	if !ok {
		return nil, errors.New("not found")
	}
	return doc, nil
}

func actorDoc(pem string) map[string]any {
	return map[string]any{
		"id":   actorIRI,
		"type": "Person",
		"publicKey": map[string]any{
			"id":           keyId,
			"owner":        actorIRI,
			"publicKeyPem": pem,
		},
	}
}

func newRequest() Request {
	h := http.Header{}
	h.Set("Date", "Mon, 19 Oct 2026 10:00:00 GMT")
	h.Set("Content-Type", "application/activity+json")
	return Request{
		Method: http.MethodPost,
		Path:   "/inbox",
		Host:   "reads.example",
		Header: h,
	}
}

func sign(t *testing.T, r Request, headers []string, key crypto.Signer) {
	t.Helper()
	s, err := SigningString(r, headers)
	if err != nil {
		t.Fatal(err)
	}

	var sig []byte
	switch k := key.(type) {
	case *rsa.PrivateKey:
		digest := sha256.Sum256([]byte(s))
		sig, err = rsa.SignPKCS1v15(rand.Reader, k, crypto.SHA256, digest[:])
	case ed25519.PrivateKey:
		sig = ed25519.Sign(k, []byte(s))
	}
	if err != nil {
		t.Fatal(err)
	}

	r.Header.Set("Signature", fmt.Sprintf(`keyId="%s",algorithm="hs2019",headers="%s",signature="%s"`,
		keyId, strings.Join(headers, " "), base64.StdEncoding.EncodeToString(sig)))
}

func TestSigningString(t *testing.T) {
	r := newRequest()
	got, err := SigningString(r, []string{"(request-target)", "host", "date"})
	if err != nil {
		t.Fatal(err)
	}

	expected := "(request-target): post /inbox\nhost: reads.example\ndate: Mon, 19 Oct 2026 10:00:00 GMT"
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Error(diff)
	}
}

func TestSigningString_MissingHeader(t *testing.T) {
	r := newRequest()
	_, err := SigningString(r, []string{"(request-target)", "digest"})
	if !errors.Is(err, ErrMissingSignedHeader) {
		t.Errorf("expected ErrMissingSignedHeader, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	f := &fetcher{docs: map[string]map[string]any{actorIRI: actorDoc(rsaPem)}}
	v := NewVerifier(f, time.Second)

	r := newRequest()
	sign(t, r, []string{"(request-target)", "host", "date"}, rsaKey)

	owner, err := v.Verify(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	if owner.String() != actorIRI {
		t.Errorf("expected owner %s, got %s", actorIRI, owner)
	}
	if diff := cmp.Diff([]string{actorIRI}, f.calls); diff != "" {
		t.Errorf("keyId must be fetched without its fragment: %s", diff)
	}
}

func TestVerify_Ed25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	pem, err := utils.EncodePublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}

	v := NewVerifier(&fetcher{docs: map[string]map[string]any{actorIRI: actorDoc(pem)}}, 0)
	r := newRequest()
	sign(t, r, []string{"(request-target)", "host", "date"}, priv)

	if _, err := v.Verify(ctx, r); err != nil {
		t.Fatal(err)
	}
}

func TestVerify_KeyMismatch(t *testing.T) {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	v := NewVerifier(&fetcher{docs: map[string]map[string]any{actorIRI: actorDoc(rsaPem)}}, time.Second)
	r := newRequest()
	sign(t, r, []string{"(request-target)", "host", "date"}, other)

	_, err = v.Verify(ctx, r)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got %v", err)
	}
	if !errors.Is(err, federation.ErrAuthentication) {
		t.Errorf("%v should be an authentication error", err)
	}
}

func TestVerify_TamperedRequest(t *testing.T) {
	v := NewVerifier(&fetcher{docs: map[string]map[string]any{actorIRI: actorDoc(rsaPem)}}, time.Second)
	r := newRequest()
	sign(t, r, []string{"(request-target)", "host", "date"}, rsaKey)
	r.Path = "/user/mouse/inbox"

	if _, err := v.Verify(ctx, r); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerify_KeyUnavailable(t *testing.T) {
	tests := map[string]*fetcher{
		"fetch error": {err: errors.New("connection refused")},
		"no key": {docs: map[string]map[string]any{actorIRI: {
			"id":   actorIRI,
			"type": "Person",
		}}},
		"bad pem": {docs: map[string]map[string]any{actorIRI: actorDoc("not a key")}},
	}

	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			v := NewVerifier(f, time.Second)
			r := newRequest()
			sign(t, r, []string{"(request-target)", "host", "date"}, rsaKey)

			if _, err := v.Verify(ctx, r); !errors.Is(err, ErrKeyUnavailable) {
				t.Errorf("expected ErrKeyUnavailable, got %v", err)
			}
		})
	}
}

func TestVerify_KeyList(t *testing.T) {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	otherPem, err := utils.EncodePublicKey(&other.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	doc := map[string]any{
		"id": actorIRI,
		"publicKey": []any{
			map[string]any{"id": actorIRI + "#other-key", "publicKeyPem": otherPem},
			map[string]any{"id": keyId, "publicKeyPem": rsaPem},
		},
	}
	v := NewVerifier(&fetcher{docs: map[string]map[string]any{actorIRI: doc}}, time.Second)
	r := newRequest()
	sign(t, r, []string{"(request-target)", "host", "date"}, rsaKey)

	if _, err := v.Verify(ctx, r); err != nil {
		t.Fatal(err)
	}
}

func TestParseHeader(t *testing.T) {
	sig := base64.StdEncoding.EncodeToString([]byte("signature"))
	tests := map[string]struct {
		header   string
		expected Params
		err      error
	}{
		"valid": {
			header: fmt.Sprintf(`keyId="%s",algorithm="rsa-sha256",headers="(request-target) host date",signature="%s"`, keyId, sig),
			expected: Params{
				KeyId:     keyId,
				Algorithm: "rsa-sha256",
				Headers:   []string{"(request-target)", "host", "date"},
				Signature: []byte("signature"),
			},
		},
		"empty":         {header: "", err: ErrMalformedHeader},
		"no keyId":      {header: fmt.Sprintf(`headers="date",signature="%s"`, sig), err: ErrMalformedHeader},
		"no headers":    {header: fmt.Sprintf(`keyId="%s",signature="%s"`, keyId, sig), err: ErrMalformedHeader},
		"no signature":  {header: fmt.Sprintf(`keyId="%s",headers="date"`, keyId), err: ErrMalformedHeader},
		"not base64":    {header: fmt.Sprintf(`keyId="%s",headers="date",signature="@@@"`, keyId), err: ErrMalformedHeader},
		"not key=value": {header: "garbage", err: ErrMalformedHeader},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseHeader(test.header)
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Errorf("expected %v, got %v", test.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestVerify_RelativeKeyId(t *testing.T) {
	v := NewVerifier(&fetcher{}, time.Second)
	r := newRequest()
	r.Header.Set("Signature", `keyId="/user/rat#main-key",headers="date",signature="c2ln"`)

	if _, err := v.Verify(ctx, r); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader, got %v", err)
	}
}

// A request signed by the client library must verify against the rebuilt signing string.
func TestVerify_HttpsigSigner(t *testing.T) {
	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		[]string{httpsig.RequestTarget, "host", "date", "digest"},
		httpsig.Signature,
		3600,
	)
	if err != nil {
		t.Fatal(err)
	}

	body := []byte(`{"type":"Follow"}`)
	req, err := http.NewRequest(http.MethodPost, "https://reads.example/inbox", strings.NewReader(string(body)))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	if err = signer.SignRequest(rsaKey, keyId, req, body); err != nil {
		t.Fatal(err)
	}

	r := Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Host:   req.URL.Host,
		Header: req.Header,
	}
	v := NewVerifier(&fetcher{docs: map[string]map[string]any{actorIRI: actorDoc(rsaPem)}}, time.Second)
	if _, err := v.Verify(ctx, r); err != nil {
		t.Fatal(err)
	}
}

func TestVerify_Owner(t *testing.T) {
	tests := map[string]struct {
		doc   map[string]any
		owner string
		err   error
	}{
		"key owner": {
			doc:   actorDoc(rsaPem),
			owner: actorIRI,
		},
		"actor id when owner is absent": {
			doc: map[string]any{
				"id":        actorIRI,
				"publicKey": map[string]any{"id": keyId, "publicKeyPem": rsaPem},
			},
			owner: actorIRI,
		},
		"key document": {
			doc: map[string]any{
				"id":           keyId,
				"owner":        "https://remote.example/user/weasel",
				"publicKeyPem": rsaPem,
			},
			owner: "https://remote.example/user/weasel",
		},
		"key document without owner": {
			doc:   map[string]any{"id": keyId, "publicKeyPem": rsaPem},
			owner: actorIRI,
		},
		"owner on another host": {
			doc: map[string]any{
				"id": actorIRI,
				"publicKey": map[string]any{
					"id":           keyId,
					"owner":        "https://elsewhere.example/user/rat",
					"publicKeyPem": rsaPem,
				},
			},
			err: ErrKeyUnavailable,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v := NewVerifier(&fetcher{docs: map[string]map[string]any{actorIRI: test.doc}}, time.Second)
			r := newRequest()
			sign(t, r, []string{"(request-target)", "host", "date"}, rsaKey)

			owner, err := v.Verify(ctx, r)
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Errorf("expected %v, got %v", test.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.owner, owner.String()); diff != "" {
				t.Error(diff)
			}
		})
	}
}
