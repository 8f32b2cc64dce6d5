package client

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"code.superseriousbusiness.org/activity/pub"
	"code.superseriousbusiness.org/httpsig"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
)

var prefs = []httpsig.Algorithm{httpsig.RSA_SHA256}
var getHeaders = []string{httpsig.RequestTarget, "host", "date"}
var postHeaders = []string{httpsig.RequestTarget, "host", "date", "digest"}
var mainKey, _ = url.Parse("#main-key")

// maxDocumentSize bounds the size of fetched documents.
const maxDocumentSize = 1 << 20

// StatusError is returned when a remote server answers with an error status.
type StatusError struct {
	Code   int
	Status string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Body)
}

// HttpClient is a client to be used by the instance actor itself, such as when fetching a remote actor's
// document. Deliveries on behalf of a local user are signed with that user's key.
type HttpClient struct {
	db              db.Actors
	client          *http.Client
	agent           string
	key             crypto.PrivateKey
	pubKeyId        *url.URL
	getSigner       httpsig.Signer
	getSignerMutex  sync.Mutex
	postSigner      httpsig.Signer
	postSignerMutex sync.Mutex
}

// New creates a client signing requests with key, whose public counterpart is published at keyId. If key is
// nil, requests are sent unsigned.
func New(db db.Actors, client *http.Client, key crypto.PrivateKey, prefs []httpsig.Algorithm, keyId *url.URL, agent string) (*HttpClient, error) {
	getSigner, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, getHeaders, httpsig.Signature, 3600)
	if err != nil {
		return nil, err
	}

	postSigner, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, postHeaders, httpsig.Signature, 3600)
	if err != nil {
		return nil, err
	}

	return &HttpClient{
		db:         db,
		client:     client,
		agent:      agent,
		key:        key,
		pubKeyId:   keyId,
		getSigner:  getSigner,
		postSigner: postSigner,
	}, nil
}

// GetJSON dereferences the IRI and decodes the document.
func (c *HttpClient) GetJSON(ctx context.Context, iri *url.URL) (map[string]any, error) {
	res, err := c.Dereference(ctx, iri)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var props map[string]any
	err = json.NewDecoder(io.LimitReader(res.Body, maxDocumentSize)).Decode(&props)
	if err != nil {
		log.Error().Err(err).Str("iri", iri.String()).Msg("response body unmarshaling error")
		return nil, err
	}
	return props, nil
}

// Dereference fetches the IRI, accepting ActivityStreams documents. A response with an error status is
// returned as a *StatusError, its body already consumed.
func (c *HttpClient) Dereference(ctx context.Context, iri *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri.String(), nil)
	if err != nil {
		return nil, err
	}

	// The signer reads every signed header from the header map, including host.
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	req.Header.Set("Accept", config.ActivityJSON)
	req.Header.Set("User-Agent", c.agent)
	if c.key != nil {
		c.getSignerMutex.Lock()
		err = c.getSigner.SignRequest(c.key, c.pubKeyId.String(), req, nil)
		c.getSignerMutex.Unlock()
		if err != nil {
			log.Error().Err(err).Msg("error while signing request")
			return nil, err
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		defer res.Body.Close()
		content, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		log.Error().Str("status", res.Status).Str("iri", iri.String()).Bytes("response", content).Msg("fetch error")
		return nil, &StatusError{Code: res.StatusCode, Status: res.Status, Body: content}
	}

	return res, nil
}

// DeliverAs posts the activity to the inbox through a go-fed transport signing with the key of the local actor
// from. Activities sent by the instance actor itself are signed with the client's own key.
func (c *HttpClient) DeliverAs(ctx context.Context, obj map[string]any, to *url.URL, from *url.URL) error {
	if path := from.Path; path == "" || path == "/" {
		return c.Deliver(ctx, obj, to)
	}

	key, err := c.db.GetUserPrivateKeyByURI(ctx, from)
	if err != nil {
		log.Error().Err(err).Str("actor", from.String()).Msg("user's private key not found")
		return err
	}

	signer, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, postHeaders, httpsig.Signature, 3600)
	if err != nil {
		log.Error().Err(err).Msg("failed to construct signer")
		return err
	}

	transport := pub.NewHttpSigTransport(c.client, c.agent, c, nil, signer, from.ResolveReference(mainKey).String(), key)
	if err = transport.Deliver(ctx, obj, to); err != nil {
		log.Error().Err(err).Str("inbox", to.String()).Str("actor", from.String()).Msg("delivery error")
		return err
	}
	return nil
}

// Deliver posts the activity to the inbox, signed by the instance actor.
func (c *HttpClient) Deliver(ctx context.Context, obj map[string]any, to *url.URL) error {
	return c.post(ctx, obj, to, func(req *http.Request, body []byte) error {
		if c.key == nil {
			return nil
		}
		c.postSignerMutex.Lock()
		defer c.postSignerMutex.Unlock()
		return c.postSigner.SignRequest(c.key, c.pubKeyId.String(), req, body)
	})
}

func (c *HttpClient) post(ctx context.Context, obj map[string]any, to *url.URL, sign func(*http.Request, []byte) error) error {
	body, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, to.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", config.ActivityJSON)
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	if err = sign(req, body); err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		log.Error().Int("code", res.StatusCode).Bytes("response body", body).Msg("delivery error")
		return &StatusError{Code: res.StatusCode, Status: res.Status, Body: body}
	}
	return nil
}

// Now is the clock of the transports built by DeliverAs.
func (c *HttpClient) Now() time.Time {
	return time.Now()
}

// IsGone reports whether err is a remote answer saying the resource does not exist.
func IsGone(err error) bool {
	var status *StatusError
	if !errors.As(err, &status) {
		return false
	}
	return status.Code == http.StatusNotFound || status.Code == http.StatusGone
}
