// Package cli is the storefront command line: catalogue browsing, cart,
// reviews, login and the admin tools, all on top of internal/storefront.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/repositories"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/storefront"
	"storefront/pkg/rabbitmq"
)

// EventBroker publishes activity events and streams them back.
type EventBroker interface {
	events.Publisher
	ConsumeEvents(ctx context.Context, handler func(events.Event) error) error
	Close() error
}

// App carries the wiring shared by every command. It is built once per
// invocation in the root command's PersistentPreRunE.
type App struct {
	configPath string
	apiURL     string
	verbose    bool

	cfg     config.Config
	logger  *zap.Logger
	store   *session.Store
	shop    *storefront.Storefront
	broker  EventBroker
	closers []func() error

	in           *bufio.Reader
	stdin        io.Reader
	out          io.Writer
	errOut       io.Writer
	readPassword func(fd int) ([]byte, error)

	storageOverride repositories.StorageRepository
	brokerOverride  EventBroker
}

// Option configures an App.
type Option func(*App)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.stdin = in
		a.in = bufio.NewReader(in)
		a.out = out
		a.errOut = errOut
	}
}

// WithStorage uses repo instead of the configured storage driver.
func WithStorage(repo repositories.StorageRepository) Option {
	return func(a *App) {
		a.storageOverride = repo
	}
}

// WithEventBroker uses b instead of dialing events.rabbitmq_url.
func WithEventBroker(b EventBroker) Option {
	return func(a *App) {
		a.brokerOverride = b
	}
}

// WithPasswordReader replaces the no-echo terminal reader.
func WithPasswordReader(fn func(fd int) ([]byte, error)) Option {
	return func(a *App) {
		a.readPassword = fn
	}
}

func newApp(opts ...Option) *App {
	a := &App{
		stdin:        os.Stdin,
		in:           bufio.NewReader(os.Stdin),
		out:          os.Stdout,
		errOut:       os.Stderr,
		readPassword: term.ReadPassword,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger

	repo, err := a.openStorage()
	if err != nil {
		return err
	}
	st := storage.New(repo, logger)

	client := api.NewClient(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	}, st, logger)
	a.store = session.NewStore(st, logger)

	a.broker = a.openBroker()
	var publisher events.Publisher = events.NopPublisher{}
	if a.broker != nil {
		publisher = a.broker
	}

	a.shop = storefront.New(a.store, client, publisher, logger)
	return nil
}

func (a *App) openStorage() (repositories.StorageRepository, error) {
	if a.storageOverride != nil {
		return a.storageOverride, nil
	}

	switch a.cfg.Storage.Driver {
	case "memory":
		return repositories.NewMockStorageRepository(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(a.cfg.Storage.DSN), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := repositories.OpenDatabase(a.cfg.Storage.Driver, a.cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)
	return repositories.NewGORMStorageRepository(db), nil
}

// openBroker returns nil when events are not configured or the broker is
// unreachable; activity events are best effort.
func (a *App) openBroker() EventBroker {
	if a.brokerOverride != nil {
		return a.brokerOverride
	}
	if a.cfg.Events.RabbitMQURL == "" {
		return nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.Events.RabbitMQURL, Logger: a.logger})
	if err != nil {
		a.logger.Warn("activity events disabled", zap.Error(err))
		return nil
	}
	a.closers = append(a.closers, client.Close)
	return client
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
