// Package inbox applies the activities delivered to the inboxes of this instance.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/activity"
	"github.com/sidereusnuntius/readfed/internal/federation"
	"github.com/sidereusnuntius/readfed/internal/signature"
)

// Verifier authenticates a request and returns the IRI of the actor that signed it.
type Verifier interface {
	Verify(ctx context.Context, r signature.Request) (*url.URL, error)
}

// Handler applies one kind of activity.
type Handler func(ctx context.Context, a activity.Activity) error

// Handle adapts a function taking a concrete activity type into a Handler.
func Handle[T activity.Activity](f func(context.Context, T) error) Handler {
	return func(ctx context.Context, a activity.Activity) error {
		t, ok := a.(T)
		if !ok {
			return fmt.Errorf("%w: %s", federation.ErrUnknownActivityType, a.Kind())
		}
		return f(ctx, t)
	}
}

// Dispatcher authenticates inbound activities and routes them to the handler registered for their type.
type Dispatcher struct {
	verifier Verifier
	handlers map[activity.Kind]Handler
}

func NewDispatcher(verifier Verifier) *Dispatcher {
	return &Dispatcher{
		verifier: verifier,
		handlers: make(map[activity.Kind]Handler),
	}
}

// Register sets the handler of an activity type, replacing any previous one. It must not be called
// concurrently with Receive.
func (d *Dispatcher) Register(kind activity.Kind, h Handler) {
	d.handlers[kind] = h
}

// Receive processes the body of a request posted to an inbox.
func (d *Dispatcher) Receive(ctx context.Context, r signature.Request, body []byte) federation.Outcome {
	a, err := activity.Parse(body)
	if err != nil {
		log.Debug().Err(err).Msg("unparseable activity")
		return federation.OutcomeFor(err)
	}

	signer, err := d.verifier.Verify(ctx, r)
	if err != nil {
		log.Info().Err(err).Str("id", a.Base().ID).Msg("rejected unauthenticated activity")
		return federation.Unauthorized
	}

	// Activities without an actor are left to their handler to reject.
	if actor := a.Base().Actor.IRI; actor != "" && actor != signer.String() {
		err = fmt.Errorf("%w: signed by %s, actor is %s", signature.ErrActorMismatch, signer, actor)
		log.Info().Err(err).Str("id", a.Base().ID).Msg("rejected activity signed by another actor")
		return federation.OutcomeFor(err)
	}

	return d.dispatch(ctx, a)
}

func (d *Dispatcher) dispatch(ctx context.Context, a activity.Activity) federation.Outcome {
	logger := log.With().Str("type", string(a.Kind())).Str("id", a.Base().ID).Logger()

	h, ok := d.handlers[a.Kind()]
	if !ok {
		logger.Debug().Msg("ignoring unsupported activity")
		return federation.OutcomeFor(federation.ErrUnknownActivityType)
	}

	err := h(ctx, a)
	outcome := federation.OutcomeFor(err)
	switch {
	case err == nil:
		logger.Debug().Msg("activity processed")
	case outcome == federation.InternalError:
		logger.Error().Err(err).Msg("failed to process activity")
	case errors.Is(err, federation.ErrValidation):
		logger.Info().Err(err).Msg("invalid activity")
	default:
		logger.Info().Err(err).Msg("activity rejected")
	}
	return outcome
}
