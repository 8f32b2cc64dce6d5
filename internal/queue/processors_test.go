package queue

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type delivery struct {
	Obj      map[string]any
	To, From string
}

type fakeDeliverer struct {
	deliveries []delivery
	err        error
}

func (f *fakeDeliverer) DeliverAs(ctx context.Context, obj map[string]any, to *url.URL, from *url.URL) error {
	f.deliveries = append(f.deliveries, delivery{Obj: obj, To: to.String(), From: from.String()})
	return f.err
}

func TestDeliver(t *testing.T) {
	f := &fakeDeliverer{}
	q := &apQueueImpl{client: f}

	job := PostJob{
		To:   "https://remote.example/inbox",
		From: "https://reads.example/user/mouse",
		Body: map[string]any{"type": "Accept"},
	}
	if err := q.deliver()(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	expected := []delivery{{Obj: job.Body, To: job.To, From: job.From}}
	if diff := cmp.Diff(expected, f.deliveries); diff != "" {
		t.Error(diff)
	}
}

func TestDeliver_Failure(t *testing.T) {
	failure := errors.New("503 Service Unavailable")
	q := &apQueueImpl{client: &fakeDeliverer{err: failure}}

	err := q.deliver()(context.Background(), PostJob{
		To:   "https://remote.example/inbox",
		From: "https://reads.example/user/mouse",
	})
	if !errors.Is(err, failure) {
		t.Errorf("the error must be returned so that the job is retried, got %v", err)
	}
}

func TestDeliver_InvalidInbox(t *testing.T) {
	f := &fakeDeliverer{}
	q := &apQueueImpl{client: f}

	err := q.deliver()(context.Background(), PostJob{To: "://bad", From: "https://reads.example/user/mouse"})
	if err == nil {
		t.Error("expected an error")
	}
	if len(f.deliveries) != 0 {
		t.Errorf("nothing should be delivered, got %v", f.deliveries)
	}
}
