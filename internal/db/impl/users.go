package impl

import (
	"context"
	"crypto"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/db/impl/queries"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/utils"
)

func (d *dbImpl) GetActorByIRI(ctx context.Context, iri *url.URL) (domain.Actor, error) {
	u, err := d.queries.GetUserByApID(ctx, iri.String())
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: actor %s", d.HandleError(err), iri)
	}
	return toActor(u)
}

func (d *dbImpl) GetLocalUser(ctx context.Context, localname string) (domain.Actor, error) {
	u, err := d.queries.GetLocalUser(ctx, localname)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: local user %s", d.HandleError(err), localname)
	}
	return toActor(u)
}

func (d *dbImpl) FindOrCreateActor(ctx context.Context, actor domain.Actor) (stored domain.Actor, err error) {
	if actor.ApId == nil || actor.Inbox == nil {
		return domain.Actor{}, fmt.Errorf("%w: actor without IRI or inbox", db.ErrInternal)
	}

	params := insertParams(actor)
	var row queries.User
	err = d.WithTx(ctx, func(tx *queries.Queries) error {
		n, err := tx.InsertUserIfAbsent(ctx, params)
		if err != nil {
			return err
		}
		if n != 0 {
			log.Debug().Str("iri", params.ApID).Msg("stored new actor")
		}
		row, err = tx.GetUserByApID(ctx, params.ApID)
		return err
	})
	if err != nil {
		return domain.Actor{}, d.HandleError(err)
	}
	return toActor(row)
}

func (d *dbImpl) CreateLocalUser(ctx context.Context, user domain.Actor, privateKeyPem string) (domain.Actor, error) {
	if user.Localname == "" {
		return domain.Actor{}, fmt.Errorf("%w: local user without a name", db.ErrInternal)
	}
	user.Local = true

	params := insertParams(user)
	params.PrivateKey = sql.NullString{Valid: true, String: privateKeyPem}
	var row queries.User
	err := d.WithTx(ctx, func(tx *queries.Queries) error {
		n, err := tx.InsertUserIfAbsent(ctx, params)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("user %s already exists", params.ApID)
		}
		row, err = tx.GetUserByApID(ctx, params.ApID)
		return err
	})
	if err != nil {
		return domain.Actor{}, d.HandleError(err)
	}
	return toActor(row)
}

func (d *dbImpl) GetUserPrivateKeyByURI(ctx context.Context, iri *url.URL) (crypto.PrivateKey, error) {
	k, err := d.queries.GetPrivateKeyByApID(ctx, iri.String())
	if err != nil {
		return nil, d.HandleError(err)
	}
	return utils.ParsePrivateKey(k)
}

func insertParams(a domain.Actor) queries.InsertUserParams {
	created := a.Created
	if created.IsZero() {
		created = time.Now()
	}
	return queries.InsertUserParams{
		ApID: a.ApId.String(),
		Localname: sql.NullString{
			Valid:  a.Localname != "",
			String: a.Localname,
		},
		Name:        a.Name,
		Summary:     a.Summary,
		Inbox:       a.Inbox.String(),
		SharedInbox: nullURL(a.SharedInbox),
		Followers:   nullURL(a.Followers),
		Following:   nullURL(a.Following),
		PublicKey:   a.PublicKey,
		Local:       a.Local,
		Created:     created.Unix(),
	}
}

func toActor(u queries.User) (a domain.Actor, err error) {
	a = domain.Actor{
		ID:        u.ID,
		Localname: u.Localname.String,
		Name:      u.Name,
		Summary:   u.Summary,
		PublicKey: u.PublicKey,
		Local:     u.Local,
		Created:   time.Unix(u.Created, 0),
	}

	if a.ApId, err = url.Parse(u.ApID); err != nil {
		return domain.Actor{}, fmt.Errorf("%w: failed to parse actor's IRI: %s", db.ErrInternal, u.ApID)
	}
	if a.Inbox, err = url.Parse(u.Inbox); err != nil {
		return domain.Actor{}, fmt.Errorf("%w: failed to parse inbox of %s", db.ErrInternal, u.ApID)
	}
	if a.SharedInbox, err = parseNull(u.SharedInbox); err != nil {
		return domain.Actor{}, err
	}
	if a.Followers, err = parseNull(u.Followers); err != nil {
		return domain.Actor{}, err
	}
	if a.Following, err = parseNull(u.Following); err != nil {
		return domain.Actor{}, err
	}
	return a, nil
}

func nullURL(u *url.URL) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return sql.NullString{Valid: true, String: u.String()}
}

func parseNull(s sql.NullString) (*url.URL, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	u, err := url.Parse(s.String)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse IRI %s", db.ErrInternal, s.String)
	}
	return u, nil
}
