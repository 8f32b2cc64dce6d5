package impl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/db/impl/queries"
)

// dbImpl implements db.DB over SQLite, with the statements kept in the queries package.
type dbImpl struct {
	Config  config.Configuration
	db      *sql.DB
	queries *queries.Queries
}

func New(config config.Configuration, d *sql.DB) db.DB {
	return &dbImpl{
		Config:  config,
		db:      d,
		queries: queries.New(d),
	}
}

// HandleError translates a database error into one of the db package's errors, so that callers need not know
// about the driver. sql.ErrNoRows becomes db.ErrNotFound; any other failure is logged and wrapped in
// db.ErrInternal.
func (d *dbImpl) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNotFound
	}
	if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInternal) {
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		log.Error().Err(err).Int("code", int(sqliteErr.Code)).Msg("sqlite error")
	} else {
		log.Error().Err(err).Msg("database error")
	}
	return fmt.Errorf("%w: %w", db.ErrInternal, err)
}

// WithTx runs f inside a transaction bound to ctx, committing it only if f succeeds.
func (d *dbImpl) WithTx(ctx context.Context, f func(tx *queries.Queries) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return d.HandleError(err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = d.HandleError(tx.Commit())
	}()

	return f(d.queries.WithTx(tx))
}
