package conversions

import (
	"context"
	"fmt"
	"net/url"

	"code.superseriousbusiness.org/activity/streams"
	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/federation"
)

var mainKey, _ = url.Parse("#main-key")

// ActorFromDocument converts a fetched actor document into a remote actor. The shared inbox is read from the
// raw document, as the endpoints property is not interpreted by the streams package.
func ActorFromDocument(ctx context.Context, doc map[string]any) (domain.Actor, error) {
	t, err := streams.ToType(ctx, doc)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %w", federation.ErrUnprocessablePropValue, err)
	}

	actor, ok := t.(ActorType)
	if !ok {
		return domain.Actor{}, fmt.Errorf("%w: %s is not an actor", federation.ErrUnprocessablePropValue, t.GetTypeName())
	}

	u, err := ActorToUser(actor)
	if err != nil {
		return domain.Actor{}, err
	}

	if endpoints, ok := doc["endpoints"].(map[string]any); ok {
		if shared, ok := endpoints["sharedInbox"].(string); ok && shared != "" {
			u.SharedInbox, _ = url.Parse(shared)
		}
	}
	return u, nil
}

func ActorToUser(a ActorType) (u domain.Actor, err error) {
	idProp := a.GetJSONLDId()
	if idProp == nil || idProp.Get() == nil {
		err = fmt.Errorf("%w: id", federation.ErrMissingProperty)
		return
	}
	u.ApId = idProp.Get()

	if name := a.GetActivityStreamsName(); name != nil && name.Len() != 0 && name.Begin().IsXMLSchemaString() {
		u.Name = name.Begin().GetXMLSchemaString()
	}

	if u.Name == "" {
		if username := a.GetActivityStreamsPreferredUsername(); username != nil && username.IsXMLSchemaString() {
			u.Name = username.GetXMLSchemaString()
		}
	}

	if summary := a.GetActivityStreamsSummary(); summary != nil && summary.Len() != 0 && summary.Begin().IsXMLSchemaString() {
		u.Summary = summary.Begin().GetXMLSchemaString()
	}

	inbox := a.GetActivityStreamsInbox()
	if inbox == nil {
		err = fmt.Errorf("%w: inbox", federation.ErrMissingProperty)
		return
	}
	if !inbox.IsIRI() {
		err = fmt.Errorf("%w: inbox", federation.ErrUnprocessablePropValue)
		return
	}
	u.Inbox = inbox.GetIRI()

	if followers := a.GetActivityStreamsFollowers(); followers != nil && followers.IsIRI() {
		u.Followers = followers.GetIRI()
	}

	if following := a.GetActivityStreamsFollowing(); following != nil && following.IsIRI() {
		u.Following = following.GetIRI()
	}

	u.PublicKey, err = ExtractPublicKeyFromActor(a)
	return
}

// UserToActor builds the actor document of a local user. The instance actor, which has no localname of its
// own in the URL space, is represented as an Application.
func UserToActor(u domain.Actor) (map[string]any, error) {
	var a ActorType
	if p := u.ApId.Path; p == "" || p == "/" {
		a = streams.NewActivityStreamsApplication()
	} else {
		a = streams.NewActivityStreamsPerson()
	}

	id := streams.NewJSONLDIdProperty()
	id.SetIRI(u.ApId)
	a.SetJSONLDId(id)

	username := streams.NewActivityStreamsPreferredUsernameProperty()
	username.SetXMLSchemaString(u.Localname)
	a.SetActivityStreamsPreferredUsername(username)

	if u.Name != "" {
		name := streams.NewActivityStreamsNameProperty()
		name.AppendXMLSchemaString(u.Name)
		a.SetActivityStreamsName(name)
	}

	summary := streams.NewActivityStreamsSummaryProperty()
	summary.AppendXMLSchemaString(u.Summary)
	a.SetActivityStreamsSummary(summary)

	inbox := streams.NewActivityStreamsInboxProperty()
	inbox.SetIRI(u.Inbox)
	a.SetActivityStreamsInbox(inbox)

	if u.Followers != nil {
		followers := streams.NewActivityStreamsFollowersProperty()
		followers.SetIRI(u.Followers)
		a.SetActivityStreamsFollowers(followers)
	}

	if u.Following != nil {
		following := streams.NewActivityStreamsFollowingProperty()
		following.SetIRI(u.Following)
		a.SetActivityStreamsFollowing(following)
	}

	a.SetW3IDSecurityV1PublicKey(PublicKeyProp(u.ApId, u.PublicKey))

	doc, err := streams.Serialize(a)
	if err != nil {
		return nil, err
	}

	if u.SharedInbox != nil {
		doc["endpoints"] = map[string]any{
			"sharedInbox": u.SharedInbox.String(),
		}
	}
	return doc, nil
}

func PublicKeyProp(owner *url.URL, publicKeyPem string) vocab.W3IDSecurityV1PublicKeyProperty {
	keyProp := streams.NewW3IDSecurityV1PublicKeyProperty()
	key := streams.NewW3IDSecurityV1PublicKey()

	ownerProp := streams.NewW3IDSecurityV1OwnerProperty()
	ownerProp.SetIRI(owner)

	keyURIProp := streams.NewJSONLDIdProperty()
	keyURIProp.SetIRI(KeyID(owner))

	pemProp := streams.NewW3IDSecurityV1PublicKeyPemProperty()
	pemProp.Set(publicKeyPem)

	key.SetJSONLDId(keyURIProp)
	key.SetW3IDSecurityV1Owner(ownerProp)
	key.SetW3IDSecurityV1PublicKeyPem(pemProp)

	keyProp.AppendW3IDSecurityV1PublicKey(key)
	return keyProp
}

// KeyID returns the IRI of the actor's main key.
func KeyID(actor *url.URL) *url.URL {
	return actor.ResolveReference(mainKey)
}

// NewAccept builds an Accept, sent by actor, of the Follow activity identified by follow.
func NewAccept(id, actor, follow, to *url.URL) vocab.ActivityStreamsAccept {
	a := streams.NewActivityStreamsAccept()
	idProp := streams.NewJSONLDIdProperty()
	idProp.SetIRI(id)
	a.SetJSONLDId(idProp)

	actorProp := streams.NewActivityStreamsActorProperty()
	actorProp.AppendIRI(actor)
	a.SetActivityStreamsActor(actorProp)

	objProp := streams.NewActivityStreamsObjectProperty()
	objProp.AppendIRI(follow)
	a.SetActivityStreamsObject(objProp)

	toProp := streams.NewActivityStreamsToProperty()
	toProp.AppendIRI(to)
	a.SetActivityStreamsTo(toProp)

	return a
}
