// The initialization package contains functions that setup required dependencies such as the SQLite database.
package initialization

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/db"
	"github.com/sidereusnuntius/readfed/internal/domain"
	"github.com/sidereusnuntius/readfed/internal/utils"
)

// SetupDB applies all remaining migrations to the database.
func SetupDB(db *sql.DB, folder, dbname string) error {
	log.Info().Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("database is up to date")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
	}
	return err
}

// OpenDB opens the SQLite database. The pool is limited to a single connection: SQLite serializes writers
// anyway, and a single connection keeps in-memory databases shared by every query.
func OpenDB(connString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// EnsureInstance creates the instance actor, whose key signs the requests the server makes on its own
// behalf, such as fetching a remote actor's document.
func EnsureInstance(ctx context.Context, DB db.DB, cfg *config.Configuration) error {
	_, err := DB.GetActorByIRI(ctx, cfg.Url)
	if err == nil || !errors.Is(err, db.ErrNotFound) {
		return err
	}

	log.Info().Msg("creating the instance actor")
	_, err = CreateUser(ctx, DB, cfg, domain.Actor{
		ApId:        cfg.Url,
		Localname:   cfg.Domain,
		Name:        cfg.Name,
		Inbox:       cfg.SharedInbox(),
		SharedInbox: cfg.SharedInbox(),
	})
	return err
}

// AddUser creates a local user with a freshly generated key pair.
func AddUser(ctx context.Context, DB db.DB, cfg *config.Configuration, localname, name string) (domain.Actor, error) {
	iri := cfg.UserIRI(localname)
	return CreateUser(ctx, DB, cfg, domain.Actor{
		ApId:        iri,
		Localname:   localname,
		Name:        name,
		Inbox:       iri.JoinPath("inbox"),
		SharedInbox: cfg.SharedInbox(),
		Followers:   iri.JoinPath("followers"),
		Following:   iri.JoinPath("following"),
	})
}

func CreateUser(ctx context.Context, DB db.DB, cfg *config.Configuration, user domain.Actor) (domain.Actor, error) {
	pair, err := utils.NewKeyPair(cfg.RsaKeySize)
	if err != nil {
		return domain.Actor{}, err
	}
	user.PublicKey = pair.Public

	created, err := DB.CreateLocalUser(ctx, user, pair.Private)
	if err != nil {
		log.Error().Err(err).Str("iri", user.ApId.String()).Msg("insert failed")
	}
	return created, err
}

// InitQueue opens the queue database and installs the backlite schema in it.
func InitQueue(cfg *config.Configuration) (*backlite.Client, error) {
	d, err := OpenDB(cfg.QueueDbUrl)
	if err != nil {
		return nil, err
	}

	workers := cfg.DeliveryWorkers
	if workers <= 0 {
		workers = 1
	}
	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              d,
		Logger:          slog.Default(),
		ReleaseAfter:    time.Minute,
		NumWorkers:      workers,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		return nil, err
	}

	return client, client.Install()
}
