package domain

import "net/url"

// ActivityRecord is an activity as stored by the instance. The pair (Kind, Iri) is unique, which is what
// makes redelivery of the same activity a no-op.
type ActivityRecord struct {
	ID  int64
	Iri *url.URL
	// Kind is the activity's type, such as Create or Follow.
	Kind string
	// SubType is the type of the activity's object, when it has one.
	SubType string
	ActorID int64
	// RawJSON is the activity's JSON representation, preserved verbatim.
	RawJSON  []byte
	BookID   int64
	ReviewID int64
}
