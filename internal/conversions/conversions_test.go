package conversions

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/utils"
)

const mastodonActor = `{
	"@context": [
		"https://www.w3.org/ns/activitystreams",
		"https://w3id.org/security/v1"
	],
	"id": "https://social.example/users/alice",
	"type": "Person",
	"preferredUsername": "alice",
	"name": "Alice",
	"summary": "reads a lot",
	"inbox": "https://social.example/users/alice/inbox",
	"outbox": "https://social.example/users/alice/outbox",
	"followers": "https://social.example/users/alice/followers",
	"following": "https://social.example/users/alice/following",
	"publicKey": {
		"id": "https://social.example/users/alice#main-key",
		"owner": "https://social.example/users/alice",
		"publicKeyPem": "PEM"
	},
	"endpoints": {
		"sharedInbox": "https://social.example/inbox"
	}
}`

func TestActorFromDocument(t *testing.T) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(mastodonActor), &doc); err != nil {
		t.Fatal(err)
	}

	got, err := ActorFromDocument(context.Background(), doc)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	expected := domain.Actor{
		ApId:        toURL("https://social.example/users/alice"),
		Name:        "Alice",
		Summary:     "reads a lot",
		Inbox:       toURL("https://social.example/users/alice/inbox"),
		SharedInbox: toURL("https://social.example/inbox"),
		Followers:   toURL("https://social.example/users/alice/followers"),
		Following:   toURL("https://social.example/users/alice/following"),
		PublicKey:   "PEM",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Error(diff)
	}
}

func TestActorFromDocument_NotAnActor(t *testing.T) {
	doc := map[string]any{
		"@context": "https://www.w3.org/ns/activitystreams",
		"id":       "https://social.example/notes/1",
		"type":     "Note",
		"content":  "hi",
	}

	if _, err := ActorFromDocument(context.Background(), doc); err == nil {
		t.Error("expected an error for a Note")
	}
}

func TestUserToActor(t *testing.T) {
	pair, err := utils.NewKeyPair(1024)
	if err != nil {
		t.Fatal(err)
	}
	pub := pair.Public

	iri := toURL("https://reads.example/user/mouse")
	user := domain.Actor{
		ApId:        iri,
		Localname:   "mouse",
		Name:        "Mouse",
		Summary:     "small reader",
		Inbox:       iri.JoinPath("inbox"),
		SharedInbox: toURL("https://reads.example/inbox"),
		Followers:   iri.JoinPath("followers"),
		Following:   iri.JoinPath("following"),
		PublicKey:   pub,
		Local:       true,
	}

	doc, err := UserToActor(user)
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]string{
		"id":                "https://reads.example/user/mouse",
		"type":              "Person",
		"preferredUsername": "mouse",
		"name":              "Mouse",
		"inbox":             "https://reads.example/user/mouse/inbox",
		"followers":         "https://reads.example/user/mouse/followers",
		"following":         "https://reads.example/user/mouse/following",
	}
	for property, expected := range checks {
		if got, _ := doc[property].(string); got != expected {
			t.Errorf("%s: expected %q, got %v", property, expected, doc[property])
		}
	}

	endpoints, _ := doc["endpoints"].(map[string]any)
	if endpoints["sharedInbox"] != "https://reads.example/inbox" {
		t.Errorf("unexpected endpoints: %v", doc["endpoints"])
	}

	// What remote servers parse out of the document must be the user we started from.
	back, err := ActorFromDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	user.Localname = ""
	user.Local = false
	if diff := cmp.Diff(user, back); diff != "" {
		t.Error(diff)
	}
}

func TestPublicKeyFromPem(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}

	pkix, err := utils.EncodePublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pkcs1 := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	}))

	cases := []struct {
		name      string
		pem       string
		expectErr bool
	}{
		{"PKIX", pkix, false},
		{"PKCS1", pkcs1, false},
		{"garbage", "not a key", true},
		{"wrong block", "-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := PublicKeyFromPem(c.pem)
			if c.expectErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !key.PublicKey.Equal(got) {
				t.Error("parsed key differs from the original")
			}
		})
	}
}

func toURL(u string) *url.URL {
	url, _ := url.Parse(u)
	return url
}
