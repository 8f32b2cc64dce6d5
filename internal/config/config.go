package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// PageSize is the number of items in a page of the followers and following collections.
	PageSize = 10
	// ActivityJSON is the media type used to request and serve ActivityStreams documents.
	ActivityJSON = "application/activity+json"
)

type Configuration struct {
	// Name of the site; it is used as the user agent of outgoing requests.
	Name string
	// Listen is the address the HTTP server binds to.
	Listen string
	// DbUrl is the path to the database file.
	DbUrl string
	// QueueDbUrl is the path to the database used by the delivery queue. It is kept apart from the main
	// database so that queue workers polling for tasks do not compete with inbound requests.
	QueueDbUrl       string
	MigrationsFolder string
	// FetchTimeout bounds every outgoing request made while handling an inbound activity, such as fetching
	// the signer's public key or a remote actor.
	FetchTimeout time.Duration
	// MaxBodyBytes is the largest inbound activity accepted.
	MaxBodyBytes int64
	// RsaKeySize specifies the size of the RSA keys generated for the instance actor and new local users.
	RsaKeySize      int
	DeliveryWorkers int
	// Debug, if true, lowers the log level to debug.
	Debug bool
	// The name of the host running the application.
	Domain string
	// Url is the instance's url.
	Url *url.URL
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "readfed")
	v.SetDefault("listen", ":8080")
	v.SetDefault("db_url", "readfed.db")
	v.SetDefault("queue_db_url", "queue.db")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("fetch_timeout", 10*time.Second)
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("rsa_key_size", 2048)
	v.SetDefault("delivery_workers", 4)
	v.SetDefault("debug", false)
}

// ReadConfig loads the configuration from a readfed.{yaml,toml,json} file, found either at the path given by
// the --config flag, the working directory or /etc/readfed, and from READFED_ prefixed environment variables,
// which take precedence over the file.
func ReadConfig(flags *pflag.FlagSet) (Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("readfed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := ""
	if flags != nil {
		path, _ = flags.GetString("config")
		if err := v.BindPFlag("debug", flags.Lookup("debug")); err != nil {
			return Configuration{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("readfed")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/readfed")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("reading configuration: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Configuration from an already populated viper instance.
func FromViper(v *viper.Viper) (Configuration, error) {
	raw := v.GetString("url")
	if raw == "" {
		return Configuration{}, errors.New("url must be set")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Configuration{}, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Configuration{}, fmt.Errorf("url %q must be absolute", raw)
	}

	cfg := Configuration{
		Name:             v.GetString("name"),
		Listen:           v.GetString("listen"),
		DbUrl:            v.GetString("db_url"),
		QueueDbUrl:       v.GetString("queue_db_url"),
		MigrationsFolder: v.GetString("migrations_folder"),
		FetchTimeout:     v.GetDuration("fetch_timeout"),
		MaxBodyBytes:     v.GetInt64("max_body_bytes"),
		RsaKeySize:       v.GetInt("rsa_key_size"),
		DeliveryWorkers:  v.GetInt("delivery_workers"),
		Debug:            v.GetBool("debug"),
		Domain:           u.Host,
		Url:              u,
	}

	if cfg.FetchTimeout <= 0 {
		return Configuration{}, errors.New("fetch_timeout must be positive")
	}
	return cfg, nil
}

// UserIRI returns the IRI of the local user with the given localname.
func (c *Configuration) UserIRI(localname string) *url.URL {
	return c.Url.JoinPath("user", localname)
}

// SharedInbox returns the IRI of the instance's shared inbox.
func (c *Configuration) SharedInbox() *url.URL {
	return c.Url.JoinPath("inbox")
}
