package client

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"code.superseriousbusiness.org/httpsig"
	"github.com/rs/zerolog/log"
	mock_db "github.com/sidereusnuntius/readfed/internal/mocks"
	"go.uber.org/mock/gomock"
)

var key *rsa.PrivateKey
var algo = httpsig.RSA_SHA256
var ctx = context.Background()

func TestMain(m *testing.M) {
	var err error
	key, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal().Err(err).Msg("tests setup failure")
		return
	}

	m.Run()
}

func verify(t *testing.T, path string, pub *rsa.PublicKey, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server moves the Host header out of the header map.
		r.Header.Set("Host", r.Host)
		verifier, err := httpsig.NewVerifier(r)
		if err != nil {
			t.Error(err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if path != r.URL.Path {
			t.Errorf("expected path %s, got %s", path, r.URL.Path)
		}

		err = verifier.Verify(pub, algo)
		if err != nil {
			t.Error("signature validation error:", err)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func newClient(t *testing.T) (*HttpClient, *mock_db.MockDB) {
	ctrl := gomock.NewController(t)
	DB := mock_db.NewMockDB(ctrl)

	kId, _ := url.Parse("http://localhost:8080#main-key")
	client, err := New(DB, &http.Client{}, key, []httpsig.Algorithm{algo}, kId, "readfed")
	if err != nil {
		t.Fatal(err)
	}
	return client, DB
}

func TestDereference(t *testing.T) {
	client, _ := newClient(t)

	path := "/someguy"
	server := httptest.NewServer(verify(t, path, &key.PublicKey, func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "application/activity+json" {
			t.Errorf("unexpected Accept header %q", accept)
		}
		w.Write([]byte("hello!"))
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	res, err := client.Dereference(ctx, u.JoinPath(path))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if b := string(body); b != "hello!" {
		t.Errorf("unexpected response: \"%s\"", b)
	}
}

func TestDereference_ErrorStatus(t *testing.T) {
	client, _ := newClient(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	u, _ := url.Parse(server.URL)
	_, err := client.GetJSON(ctx, u.JoinPath("deleted"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsGone(err) {
		t.Errorf("expected IsGone to hold for %v", err)
	}
}

func TestDeliverAs(t *testing.T) {
	client, DB := newClient(t)

	userKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	activity := map[string]any{
		"type":  "Accept",
		"actor": "https://reads.example/user/mouse",
	}

	received := make(chan map[string]any, 1)
	server := httptest.NewServer(verify(t, "/inbox", &userKey.PublicKey, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/ld+json") {
			t.Errorf("unexpected content type %q", ct)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "readfed") {
			t.Errorf("unexpected user agent %q", ua)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		received <- body
	}))
	defer server.Close()

	from, _ := url.Parse("https://reads.example/user/mouse")
	DB.EXPECT().GetUserPrivateKeyByURI(gomock.Any(), from).Return(userKey, nil)

	to, _ := url.Parse(server.URL + "/inbox")
	if err := client.DeliverAs(ctx, activity, to, from); err != nil {
		t.Fatal(err)
	}

	got := <-received
	if got["type"] != "Accept" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestDeliverAs_Rejected(t *testing.T) {
	client, DB := newClient(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	from, _ := url.Parse("https://reads.example/user/mouse")
	DB.EXPECT().GetUserPrivateKeyByURI(gomock.Any(), from).Return(key, nil)

	to, _ := url.Parse(server.URL + "/inbox")
	if err := client.DeliverAs(ctx, map[string]any{"type": "Accept"}, to, from); err == nil {
		t.Error("expected a rejected delivery to fail")
	}
}
