package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sidereusnuntius/readfed/internal/collection"
	"github.com/sidereusnuntius/readfed/internal/domain"
)

type members func(ctx context.Context, actorID int64) ([]*url.URL, error)

// Followers serves the collection of actors following a local user.
func Followers(h *Handler) http.HandlerFunc {
	return h.collection("followers", func(u domain.Actor) *url.URL { return u.Followers }, h.DB.GetFollowers)
}

// Following serves the collection of actors a local user follows.
func Following(h *Handler) http.HandlerFunc {
	return h.collection("following", func(u domain.Actor) *url.URL { return u.Following }, h.DB.GetFollowing)
}

// collection serves a paged collection of the user. An empty page parameter requests the summary of the
// collection.
func (h *Handler) collection(slug string, iri func(domain.Actor) *url.URL, list members) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var page int
		if p := r.URL.Query().Get("page"); p != "" {
			var err error
			if page, err = strconv.Atoi(p); err != nil || page < 1 {
				http.Error(w, "invalid page", http.StatusBadRequest)
				return
			}
		}

		u, err := h.DB.GetLocalUser(ctx, chi.URLParam(r, "name"))
		if err != nil {
			handleErr(w, err)
			return
		}

		id := iri(u)
		if id == nil {
			id = u.ApId.JoinPath(slug)
		}

		items, err := list(ctx, u.ID)
		if err != nil {
			handleErr(w, err)
			return
		}

		doc, err := collection.Format(id, items, page)
		if err != nil {
			handleErr(w, err)
			return
		}
		writeActivity(w, doc)
	}
}
