// Package activity parses inbound ActivityStreams documents into a closed set of typed activities. Each
// supported kind carries a payload with explicit optional fields; anything else is kept as Unknown, with its
// raw document untouched.
package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sidereusnuntius/readfed/internal/federation"
)

type Kind string

const (
	KindFollow Kind = "Follow"
	KindAccept Kind = "Accept"
	KindCreate Kind = "Create"
	KindAdd    Kind = "Add"
)

// ReviewMarker is the value of the fedireadsType property that identifies an object as a book review.
const ReviewMarker = "Review"

// Activity is implemented by Follow, Accept, Create, Add and Unknown.
type Activity interface {
	Kind() Kind
	Base() *Envelope
}

// Envelope holds the properties every activity has.
type Envelope struct {
	ID    string
	Type  Kind
	Actor Ref
	// Raw is the activity document exactly as received.
	Raw json.RawMessage
}

func (e *Envelope) Base() *Envelope { return e }

type Follow struct {
	Envelope
	Object Ref
}

func (*Follow) Kind() Kind { return KindFollow }

type Accept struct {
	Envelope
	// Object is either the accepted Follow embedded in the activity, in which case Follow is set, or a
	// reference to it.
	Object Ref
	Follow *FollowObject
}

func (*Accept) Kind() Kind { return KindAccept }

// FollowObject is the Follow embedded in an Accept.
type FollowObject struct {
	ID     string
	Actor  Ref
	Object Ref
}

type Create struct {
	Envelope
	// Object is nil if the activity has no object property.
	Object *Object
}

func (*Create) Kind() Kind { return KindCreate }

// IsReview reports whether the created object is a review of a book.
func (c *Create) IsReview() bool {
	return c.Object != nil && c.Object.FedireadsType == ReviewMarker && c.Object.InReplyTo != ""
}

// Object is the object of a Create activity.
type Object struct {
	ID            string
	Type          string
	FedireadsType string
	InReplyTo     string
	Name          string
	Content       string
	// Rating holds the raw rating value; it is validated when a review is synthesized from it.
	Rating json.Number
	Raw    json.RawMessage
}

// BookKey returns the last path segment of the object's inReplyTo reference.
func (o *Object) BookKey() string {
	return lastSegment(o.InReplyTo)
}

// LocalID returns the last path segment of the object's id, which for objects created by this instance is
// the internal identifier.
func (o *Object) LocalID() string {
	return lastSegment(o.ID)
}

type Add struct {
	Envelope
	Object json.RawMessage
	Target json.RawMessage
}

func (*Add) Kind() Kind { return KindAdd }

// Unknown is any activity whose type is not supported, including documents without a type.
type Unknown struct {
	Envelope
}

func (u *Unknown) Kind() Kind { return u.Type }

// Ref is a property whose value is either an IRI or an embedded object with an id.
type Ref struct {
	IRI string
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '"':
		return json.Unmarshal(b, &r.IRI)
	case b[0] == '{':
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		r.IRI = obj.ID
		return nil
	case b[0] == '[':
		var refs []Ref
		if err := json.Unmarshal(b, &refs); err != nil {
			return err
		}
		if len(refs) > 0 {
			r.IRI = refs[0].IRI
		}
		return nil
	default:
		return fmt.Errorf("unexpected value %s", b)
	}
}

func (r Ref) Empty() bool { return r.IRI == "" }

func (r Ref) URL() (*url.URL, error) {
	if r.IRI == "" {
		return nil, fmt.Errorf("%w: empty IRI", federation.ErrMissingProperty)
	}
	u, err := url.Parse(r.IRI)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: invalid IRI %q", federation.ErrUnprocessablePropValue, r.IRI)
	}
	return u, nil
}

func lastSegment(iri string) string {
	iri = strings.TrimRight(iri, "/")
	if i := strings.LastIndexByte(iri, '/'); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
