package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.superseriousbusiness.org/httpsig"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/readfed/internal/client"
	"github.com/sidereusnuntius/readfed/internal/config"
	"github.com/sidereusnuntius/readfed/internal/conversions"
	db "github.com/sidereusnuntius/readfed/internal/db/impl"
	"github.com/sidereusnuntius/readfed/internal/gateway"
	"github.com/sidereusnuntius/readfed/internal/inbox"
	"github.com/sidereusnuntius/readfed/internal/initialization"
	"github.com/sidereusnuntius/readfed/internal/queue"
	"github.com/sidereusnuntius/readfed/internal/resolver"
	"github.com/sidereusnuntius/readfed/internal/signature"
	"github.com/sidereusnuntius/readfed/internal/state"
	"github.com/sidereusnuntius/readfed/internal/web"
	"github.com/sidereusnuntius/readfed/internal/wellknown"
	"github.com/spf13/pflag"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := pflag.NewFlagSet("readfed", pflag.ExitOnError)
	flags.String("config", "", "path to the configuration file")
	flags.Bool("debug", false, "enable debug logging")
	setup := flags.Bool("setup", false, "apply the database migrations before starting")
	addUser := flags.String("add-user", "", "create a local user with the given name and exit")
	displayName := flags.String("display-name", "", "display name of the user created with --add-user")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.ReadConfig(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read configuration")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := initialization.OpenDB(cfg.DbUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer d.Close()
	log.Info().Msg("database connection established")

	if *setup {
		if err = initialization.SetupDB(d, cfg.MigrationsFolder, cfg.DbUrl); err != nil {
			log.Fatal().Err(err).Send()
		}
	}

	dd := db.New(cfg, d)
	if err = initialization.EnsureInstance(ctx, dd, &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to create the instance actor")
	}

	if *addUser != "" {
		u, err := initialization.AddUser(ctx, dd, &cfg, *addUser, *displayName)
		if err != nil {
			log.Fatal().Err(err).Str("localname", *addUser).Msg("failed to create user")
		}
		log.Info().Str("iri", u.ApId.String()).Msg("user created")
		return
	}

	key, err := dd.GetUserPrivateKeyByURI(ctx, cfg.Url)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load the instance key")
	}

	httpClient, err := client.New(
		dd,
		&http.Client{Timeout: cfg.FetchTimeout},
		key,
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		conversions.KeyID(cfg.Url),
		cfg.Name,
	)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	q, err := initialization.InitQueue(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect with backlite database")
	}
	deliveries := queue.New(ctx, httpClient, q)

	dispatcher := inbox.NewDispatcher(signature.NewVerifier(httpClient, cfg.FetchTimeout))
	inbox.New(
		dd,
		resolver.New(dd, httpClient, cfg.FetchTimeout),
		gateway.New(dd, deliveries, &cfg),
	).Register(dispatcher)

	st := state.State{
		DB:     dd,
		Config: &cfg,
	}

	router := chi.NewRouter()
	router.Use(middleware.RealIP, middleware.Recoverer)
	if cfg.Debug {
		router.Use(middleware.Logger)
	}

	handler := web.New(&st, dispatcher)
	handler.Mount(router)
	wellknown.Mount(&st, router)

	s := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("address", cfg.Listen).Str("url", cfg.Url.String()).Msg("started server")
	if err = s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Send()
	}
}
