package wellknown

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/state"
)

const JRD = "application/jrd+json"

type WebfingerLink struct {
	Rel  string `json:"rel"`
	Type string `json:"type"`
	Href string `json:"href"`
}

type WebfingerResponse struct {
	Subject string          `json:"subject"`
	Aliases []string        `json:"aliases,omitempty"`
	Links   []WebfingerLink `json:"links"`
}

func Mount(state *state.State, r chi.Router) {
	r.Route("/.well-known/", func(r chi.Router) {
		r.Get("/webfinger", WebfingerEndpoint(state))
	})
}

// WebfingerEndpoint resolves acct:name@domain resources naming local users.
func WebfingerEndpoint(state *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := r.URL.Query().Get("resource")
		name, host, ok := parseAcct(resource)
		if !ok {
			http.Error(w, "failed to parse resource", http.StatusBadRequest)
			return
		}
		if !strings.EqualFold(host, state.Config.Domain) {
			http.Error(w, "", http.StatusNotFound)
			return
		}

		u, err := state.DB.GetLocalUser(r.Context(), name)
		if err != nil {
			http.Error(w, "", handleErr(err))
			return
		}

		res := WebfingerResponse{
			Subject: resource,
			Aliases: []string{u.ApId.String()},
			Links: []WebfingerLink{
				{Rel: "self", Type: config.ActivityJSON, Href: u.ApId.String()},
			},
		}
		w.Header().Set("Content-Type", JRD)
		encoder := json.NewEncoder(w)

		if err = encoder.Encode(res); err != nil {
			log.Error().Err(err).Msg("unable to marshal webfinger response")
			http.Error(w, "", http.StatusInternalServerError)
		}
	}
}

// parseAcct splits an acct URI such as acct:mouse@reads.example. The scheme may be omitted.
func parseAcct(resource string) (name, host string, ok bool) {
	acct := strings.TrimPrefix(resource, "acct:")
	acct = strings.TrimPrefix(acct, "@")
	name, host, ok = strings.Cut(acct, "@")
	if !ok || name == "" || host == "" || strings.Contains(host, "@") {
		return "", "", false
	}
	return name, host, true
}

func handleErr(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		log.Error().Err(err).Msg("webfinger lookup failed")
		return http.StatusInternalServerError
	}
}
