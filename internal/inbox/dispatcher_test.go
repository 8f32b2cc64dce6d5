package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/sidereusnuntius/readfed/internal/activity"
	"github.com/sidereusnuntius/readfed/internal/federation"
	"github.com/sidereusnuntius/readfed/internal/signature"
)

type fakeVerifier struct {
	err   error
	owner string
	calls int
}

func (v *fakeVerifier) Verify(ctx context.Context, r signature.Request) (*url.URL, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	owner := v.owner
	if owner == "" {
		owner = "https://remote.example/user/rat"
	}
	return url.Parse(owner)
}

func recordingDispatcher(v Verifier, called *[]activity.Kind) *Dispatcher {
	d := NewDispatcher(v)
	for _, kind := range []activity.Kind{activity.KindFollow, activity.KindAccept, activity.KindCreate, activity.KindAdd} {
		d.Register(kind, func(ctx context.Context, a activity.Activity) error {
			*called = append(*called, kind)
			return nil
		})
	}
	return d
}

func TestReceive_Routing(t *testing.T) {
	tests := map[string]struct {
		body     string
		expected federation.Outcome
		handler  activity.Kind
	}{
		"follow": {
			body:     `{"id":"https://remote.example/1","type":"Follow","actor":"https://remote.example/user/rat","object":"https://reads.example/user/mouse"}`,
			expected: federation.OK,
			handler:  activity.KindFollow,
		},
		"accept": {
			body:     `{"id":"https://remote.example/2","type":"Accept","actor":"https://remote.example/user/rat","object":{"type":"Follow"}}`,
			expected: federation.OK,
			handler:  activity.KindAccept,
		},
		"create": {
			body:     `{"id":"https://remote.example/3","type":"Create","actor":"https://remote.example/user/rat","object":{"type":"Note"}}`,
			expected: federation.OK,
			handler:  activity.KindCreate,
		},
		"add": {
			body:     `{"id":"https://remote.example/4","type":"Add","actor":"https://remote.example/user/rat"}`,
			expected: federation.OK,
			handler:  activity.KindAdd,
		},
		"unsupported type": {
			body:     `{"id":"https://remote.example/5","type":"Like","actor":"https://remote.example/user/rat"}`,
			expected: federation.NotFound,
		},
		"missing type": {
			body:     `{"id":"https://remote.example/6","actor":"https://remote.example/user/rat"}`,
			expected: federation.NotFound,
		},
		"lowercase type": {
			body:     `{"id":"https://remote.example/7","type":"follow"}`,
			expected: federation.NotFound,
		},
		"type array": {
			body:     `{"id":"https://remote.example/8","type":["Create"],"object":{"type":"Note"}}`,
			expected: federation.OK,
			handler:  activity.KindCreate,
		},
		"invalid json": {
			body:     `{"type": "Follow"`,
			expected: federation.BadRequest,
		},
		"not an object": {
			body:     `["Follow"]`,
			expected: federation.BadRequest,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var called []activity.Kind
			d := recordingDispatcher(&fakeVerifier{}, &called)

			outcome := d.Receive(ctx, signature.Request{}, []byte(test.body))
			if outcome != test.expected {
				t.Errorf("expected %s, got %s", test.expected, outcome)
			}

			switch {
			case test.handler == "" && len(called) != 0:
				t.Errorf("no handler should be called, got %v", called)
			case test.handler != "" && (len(called) != 1 || called[0] != test.handler):
				t.Errorf("expected %s handler to be called once, got %v", test.handler, called)
			}
		})
	}
}

func TestReceive_Unauthorized(t *testing.T) {
	var called []activity.Kind
	v := &fakeVerifier{err: signature.ErrSignatureInvalid}
	d := recordingDispatcher(v, &called)

	body := `{"id":"https://remote.example/1","type":"Follow"}`
	if outcome := d.Receive(ctx, signature.Request{}, []byte(body)); outcome != federation.Unauthorized {
		t.Errorf("expected Unauthorized, got %s", outcome)
	}
	if len(called) != 0 {
		t.Errorf("no handler should run for an unauthenticated activity, got %v", called)
	}
}

// Bodies that cannot be parsed are rejected before any key is fetched.
func TestReceive_BadRequestBeforeVerification(t *testing.T) {
	v := &fakeVerifier{err: signature.ErrSignatureInvalid}
	d := NewDispatcher(v)

	if outcome := d.Receive(ctx, signature.Request{}, []byte("not json")); outcome != federation.BadRequest {
		t.Errorf("expected BadRequest, got %s", outcome)
	}
	if v.calls != 0 {
		t.Errorf("expected no verification, got %d", v.calls)
	}
}

func TestReceive_HandlerErrors(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected federation.Outcome
	}{
		"validation":   {fmt.Errorf("%w: object", federation.ErrMissingProperty), federation.BadRequest},
		"not found":    {fmt.Errorf("%w: user", federation.ErrReferentNotFound), federation.NotFound},
		"unexpected":   {errors.New("database is locked"), federation.InternalError},
		"fetch failed": {fmt.Errorf("%w: actor", federation.ErrFetch), federation.InternalError},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDispatcher(&fakeVerifier{})
			d.Register(activity.KindFollow, func(ctx context.Context, a activity.Activity) error {
				return test.err
			})

			outcome := d.Receive(ctx, signature.Request{}, []byte(`{"type":"Follow"}`))
			if outcome != test.expected {
				t.Errorf("expected %s, got %s", test.expected, outcome)
			}
		})
	}
}

func TestHandle_WrongType(t *testing.T) {
	h := Handle(func(ctx context.Context, f *activity.Follow) error {
		t.Error("handler must not be called")
		return nil
	})

	err := h(ctx, &activity.Create{})
	if !errors.Is(err, federation.ErrUnknownActivityType) {
		t.Errorf("expected ErrUnknownActivityType, got %v", err)
	}
}

func TestReceive_ActorMismatch(t *testing.T) {
	tests := map[string]struct {
		owner    string
		body     string
		expected federation.Outcome
	}{
		"signed by the actor": {
			owner:    "https://remote.example/user/rat",
			body:     `{"id":"https://remote.example/1","type":"Follow","actor":"https://remote.example/user/rat"}`,
			expected: federation.OK,
		},
		"signed by another actor": {
			owner:    "https://remote.example/user/weasel",
			body:     `{"id":"https://remote.example/1","type":"Follow","actor":"https://remote.example/user/rat"}`,
			expected: federation.Unauthorized,
		},
		"embedded actor": {
			owner:    "https://remote.example/user/weasel",
			body:     `{"id":"https://remote.example/1","type":"Follow","actor":{"id":"https://remote.example/user/rat"}}`,
			expected: federation.Unauthorized,
		},
		"no actor": {
			owner:    "https://remote.example/user/weasel",
			body:     `{"id":"https://remote.example/1","type":"Follow"}`,
			expected: federation.OK,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var called []activity.Kind
			d := recordingDispatcher(&fakeVerifier{owner: test.owner}, &called)

			if outcome := d.Receive(ctx, signature.Request{}, []byte(test.body)); outcome != test.expected {
				t.Errorf("expected %s, got %s", test.expected, outcome)
			}
			if test.expected != federation.OK && len(called) != 0 {
				t.Errorf("no handler should run, got %v", called)
			}
		})
	}
}
