package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Mount(r chi.Router) {
	r.Get("/", InstanceActor(h))

	r.Post(InboxRoute, SharedInbox(h))
	r.Get(InboxRoute, NotFound)

	r.Route(UserRoute, func(r chi.Router) {
		r.Get("/", Actor(h))
		r.Post(InboxRoute, UserInbox(h))
		r.Get(InboxRoute, NotFound)
		r.Get("/status/{id}", Status(h))
		r.Get("/followers", Followers(h))
		r.Get("/following", Following(h))
	})
}

// NotFound answers requests to read an inbox, which are not supported.
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}
