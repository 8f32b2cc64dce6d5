package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sidereusnuntius/readfed/internal/conversions"
	"github.com/sidereusnuntius/readfed/internal/domain"
)

// Actor serves the actor document of a local user.
func Actor(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.DB.GetLocalUser(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			handleErr(w, err)
			return
		}
		h.writeActor(w, u)
	}
}

// InstanceActor serves the actor that signs the requests the instance makes on its own behalf.
func InstanceActor(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.DB.GetActorByIRI(r.Context(), h.Config.Url)
		if err != nil {
			handleErr(w, err)
			return
		}
		h.writeActor(w, u)
	}
}

func (h *Handler) writeActor(w http.ResponseWriter, u domain.Actor) {
	doc, err := conversions.UserToActor(u)
	if err != nil {
		handleErr(w, err)
		return
	}
	writeActivity(w, doc)
}

// Status serves the activity a local user is the actor of.
func Status(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			NotFound(w, r)
			return
		}

		u, err := h.DB.GetLocalUser(ctx, chi.URLParam(r, "name"))
		if err != nil {
			handleErr(w, err)
			return
		}

		status, err := h.DB.GetStatus(ctx, id)
		if err != nil {
			handleErr(w, err)
			return
		}
		if status.ActorID != u.ID {
			NotFound(w, r)
			return
		}
		writeRaw(w, status.RawJSON)
	}
}
