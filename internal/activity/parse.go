package activity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sidereusnuntius/readfed/internal/federation"
)

type envelopeJSON struct {
	ID     string          `json:"id"`
	Type   json.RawMessage `json:"type"`
	Actor  Ref             `json:"actor"`
	Object json.RawMessage `json:"object"`
	Target json.RawMessage `json:"target"`
}

type followObjectJSON struct {
	ID     string `json:"id"`
	Actor  Ref    `json:"actor"`
	Object Ref    `json:"object"`
}

type objectJSON struct {
	ID            string          `json:"id"`
	Type          json.RawMessage `json:"type"`
	FedireadsType string          `json:"fedireadsType"`
	InReplyTo     Ref             `json:"inReplyTo"`
	Name          string          `json:"name"`
	Content       string          `json:"content"`
	Rating        json.RawMessage `json:"rating"`
}

// Parse decodes an activity document. Bodies that are not JSON objects, or whose well-known properties have
// the wrong shape, are reported as federation.ErrMalformedRequest. A missing or unsupported type is not an
// error: the document is returned as an Unknown activity.
func Parse(body []byte) (Activity, error) {
	var raw envelopeJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", federation.ErrMalformedRequest, err)
	}

	env := Envelope{
		ID:    raw.ID,
		Type:  Kind(typeName(raw.Type)),
		Actor: raw.Actor,
		Raw:   json.RawMessage(body),
	}

	switch env.Type {
	case KindFollow:
		f := &Follow{Envelope: env}
		if err := unmarshalOptional(raw.Object, &f.Object); err != nil {
			return nil, err
		}
		return f, nil
	case KindAccept:
		return parseAccept(env, raw.Object)
	case KindCreate:
		return parseCreate(env, raw.Object)
	case KindAdd:
		return &Add{Envelope: env, Object: raw.Object, Target: raw.Target}, nil
	default:
		return &Unknown{Envelope: env}, nil
	}
}

func parseAccept(env Envelope, object json.RawMessage) (*Accept, error) {
	a := &Accept{Envelope: env}
	if err := unmarshalOptional(object, &a.Object); err != nil {
		return nil, err
	}

	if trimmed := bytes.TrimSpace(object); len(trimmed) > 0 && trimmed[0] == '{' {
		var f followObjectJSON
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("%w: accept object: %w", federation.ErrMalformedRequest, err)
		}
		a.Follow = &FollowObject{ID: f.ID, Actor: f.Actor, Object: f.Object}
	}
	return a, nil
}

func parseCreate(env Envelope, object json.RawMessage) (*Create, error) {
	c := &Create{Envelope: env}
	trimmed := bytes.TrimSpace(object)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return c, nil
	}

	if trimmed[0] != '{' {
		// A bare reference: there is nothing to interpret beyond its id.
		var ref Ref
		if err := json.Unmarshal(trimmed, &ref); err != nil {
			return nil, fmt.Errorf("%w: create object: %w", federation.ErrMalformedRequest, err)
		}
		c.Object = &Object{ID: ref.IRI, Raw: json.RawMessage(trimmed)}
		return c, nil
	}

	var o objectJSON
	if err := json.Unmarshal(trimmed, &o); err != nil {
		return nil, fmt.Errorf("%w: create object: %w", federation.ErrMalformedRequest, err)
	}

	c.Object = &Object{
		ID:            o.ID,
		Type:          typeName(o.Type),
		FedireadsType: o.FedireadsType,
		InReplyTo:     o.InReplyTo.IRI,
		Name:          o.Name,
		Content:       o.Content,
		Rating:        ratingNumber(o.Rating),
		Raw:           json.RawMessage(trimmed),
	}
	return c, nil
}

func unmarshalOptional(b json.RawMessage, ref *Ref) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, ref); err != nil {
		return fmt.Errorf("%w: %w", federation.ErrMalformedRequest, err)
	}
	return nil
}

// typeName returns the type of an object, which ActivityStreams allows to be an array of types. In that case
// the first one is used.
func typeName(b json.RawMessage) string {
	if len(b) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	var types []string
	if err := json.Unmarshal(b, &types); err == nil && len(types) > 0 {
		return types[0]
	}
	return ""
}

// ratingNumber keeps numeric ratings and numeric strings; any other value becomes an invalid number that is
// rejected when the review is validated.
func ratingNumber(b json.RawMessage) json.Number {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	if b[0] == '"' {
		var s string
		_ = json.Unmarshal(b, &s)
		return json.Number(s)
	}
	return json.Number(b)
}
