package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/signature"
)

// SharedInbox receives activities addressed to any local actor.
func SharedInbox(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.receive(w, r)
	}
}

// UserInbox receives activities addressed to a local user, who must exist.
func UserInbox(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if _, err := h.DB.GetLocalUser(r.Context(), name); err != nil {
			handleErr(w, err)
			return
		}
		h.receive(w, r)
	}
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.Config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "activity too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	outcome := h.receiver.Receive(r.Context(), signature.FromHTTP(r), body)
	log.Debug().Str("path", r.URL.Path).Stringer("outcome", outcome).Msg("inbox request")
	w.WriteHeader(outcome.Status())
}
