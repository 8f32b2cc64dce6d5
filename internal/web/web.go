// Package web serves the federation endpoints of the instance: the inboxes, and the documents remote servers
// fetch from it.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/federation"
	"github.com/sidereusnuntius/readfed/internal/signature"
	"github.com/sidereusnuntius/readfed/internal/state"
)

const (
	InboxRoute = "/inbox"
	UserRoute  = "/user/{name}"
)

// Receiver processes an activity posted to an inbox.
type Receiver interface {
	Receive(ctx context.Context, r signature.Request, body []byte) federation.Outcome
}

type Handler struct {
	Config   *config.Configuration
	DB       db.DB
	receiver Receiver
}

func New(state *state.State, receiver Receiver) Handler {
	return Handler{
		Config:   state.Config,
		DB:       state.DB,
		receiver: receiver,
	}
}

func writeActivity(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	writeRaw(w, b)
}

func writeRaw(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", config.ActivityJSON)
	if _, err := w.Write(b); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

func handleErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "", http.StatusInternalServerError)
	}
}
