package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"portfolio-alerts/internal/alert"
	"portfolio-alerts/internal/alerting"
	"portfolio-alerts/internal/config"
	"portfolio-alerts/internal/fetcher"
	"portfolio-alerts/internal/portfolio"
	"portfolio-alerts/internal/scheduler"
	"portfolio-alerts/internal/service"
	"portfolio-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// openBackend selects the configured document backend. The returned closer
// may be nil for backends without resources to release.
func (a *App) openBackend(ctx context.Context) (storage.Backend, func(), error) {
	switch a.Config.Storage.Backend {
	case "remote":
		pool, err := storage.NewPool(ctx, a.Config.Storage.Remote)
		if err != nil {
			return nil, nil, err
		}
		backend, err := storage.NewPostgresBackend(ctx, pool, a.Config.Storage.Remote)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, backend.Close, nil
	default:
		return storage.NewFileBackend(a.Config.Storage.Local.Dir), nil, nil
	}
}

func (a *App) newStores(backend storage.Backend) (*alert.Store, *portfolio.Store) {
	return alert.NewStore(backend, a.Logger), portfolio.NewStore(backend, a.Logger)
}

func (a *App) newFetcher() *fetcher.Client {
	return fetcher.NewClient(fetcher.Options{
		BaseURL:   a.Config.Market.BaseURL,
		Timeout:   a.Config.Market.RequestTimeout,
		UserAgent: a.Config.Market.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// Run executes the long-running evaluation service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return err
	}
	if closeBackend != nil {
		defer closeBackend()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Evaluator.Interval,
		AlignToStart: a.Config.Evaluator.AlignToBucket,
		StartupDelay: a.Config.Evaluator.StartupDelay,
	}, a.Logger)

	client := a.newFetcher()
	notifier := a.newNotifier()
	alertStore, portfolioStore := a.newStores(backend)

	svc := service.New(a.Config, sched, client, client, alertStore, portfolioStore, notifier, a.Logger)

	a.Logger.Info().Str("backend", a.Config.Storage.Backend).Msg("starting alert evaluation service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("alert evaluation service stopped")
	return nil
}

// ExportOptions hold parameters for exporting portfolio history.
type ExportOptions struct {
	PNGPath   string
	CSVPath   string
	Days      int
	Seed      int64
	MaxPoints int
}

// IndicatorOptions configure the indicators command.
type IndicatorOptions struct {
	Days int
	Seed int64
}

// SimulateOptions configure a one-shot evaluation against a fixed price.
type SimulateOptions struct {
	Coin  string
	Price float64
}
