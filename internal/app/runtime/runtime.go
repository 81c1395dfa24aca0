package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"discoBot/internal/app/events"
	"discoBot/internal/domain"
	"discoBot/internal/infrastructure/api/anilist"
	"discoBot/internal/infrastructure/api/httpx"
	"discoBot/internal/infrastructure/api/opentdb"
	"discoBot/internal/infrastructure/api/openweather"
	"discoBot/internal/infrastructure/api/pokeapi"
	"discoBot/internal/infrastructure/cache"
	"discoBot/internal/infrastructure/config"
	sqlitestorage "discoBot/internal/infrastructure/persistence/sqlite"
	discordadapter "discoBot/internal/interface/adapters/discord"
	ws "discoBot/internal/interface/api/ws"
	"discoBot/internal/interface/outs"
	"discoBot/internal/usecase/commands"
	"discoBot/internal/usecase/handle_message"
	"discoBot/internal/usecase/moderation"
	"discoBot/internal/usecase/notifications"
	"discoBot/internal/usecase/waiter"
)

const purgeInterval = time.Hour

// Platform es la conexión con el chat: entrega mensajes al handler y envía
// las respuestas.
type Platform interface {
	outs.Sender
	SetHandler(h discordadapter.MessageHandler)
	Start(ctx context.Context) error
}

type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Clock  clockwork.Clock
	// Platform reemplaza al adapter de Discord (tests).
	Platform Platform
}

type Runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  clockwork.Clock

	bus      *events.Bus
	store    *sqlitestorage.ResponseStore
	cache    *cache.Tiered
	registry *waiter.Registry
	guard    *outs.Guard
	router   *commands.Router
	gate     *handle_message.Interactor
	platform Platform
	feed     *ws.Server
	activity *notifications.EventLogger

	cancel  context.CancelFunc
	group   *errgroup.Group
	stopMu  sync.Mutex
	stopped bool
}

// New arma el grafo de dependencias sin abrir conexiones de red.
func New(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("runtime: nil config")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	run := &Runtime{cfg: cfg, logger: logger, clock: clock}

	var cold cache.ColdStore
	if cfg.PokedexCachePath != "" {
		store, err := sqlitestorage.NewResponseStore(cfg.PokedexCachePath, clock)
		if err != nil {
			return nil, fmt.Errorf("response cache: %w", err)
		}
		run.store = store
		cold = store
	}

	tiered, err := cache.NewTiered(cache.Options{Cold: cold, Clock: clock, Logger: logger.Named("cache")})
	if err != nil {
		run.closeStorage()
		return nil, err
	}
	run.cache = tiered

	httpClient := httpx.NewClient(cfg.HTTPTimeout)
	trivia := opentdb.NewClient(cfg.OpenTDBURL, httpClient)
	weather := openweather.NewClient(cfg.OpenWeatherURL, cfg.WeatherKey, httpClient)
	pokedex := pokeapi.NewClient(cfg.PokeAPIURL, httpClient, tiered, cfg.PokedexCacheTTL)
	media := anilist.NewClient(cfg.AniListURL, httpClient)

	run.bus = events.NewBus(logger)
	run.activity = notifications.NewEventLogger(run.bus, logger)
	run.registry = waiter.NewRegistry(clock, logger)
	run.guard = outs.NewGuard(logger)

	prefix := cfg.CommandPrefix
	router := commands.NewRouter(prefix, run.guard, run.bus, logger)
	router.Register(commands.NewTriviaCommand(trivia, run.registry, commands.NewShuffler(nil), cfg.ReplyTimeout))
	router.Register(commands.NewWeatherCommand(weather, prefix))
	router.Register(commands.NewPokedexCommand(pokedex, prefix))
	router.Register(commands.NewAnimeDescCommand(media, run.registry, cfg.ReplyTimeout, prefix))
	router.Register(commands.NewHelpCommand(prefix))
	run.router = router

	rule := moderation.NewLinkRule(cfg.ModerationMarkers...)
	run.gate = handle_message.NewInteractor(rule, run.guard, run.registry, router, run.bus, logger)

	run.platform = opts.Platform
	if run.platform == nil {
		run.platform = discordadapter.NewAdapter(discordadapter.Config{Token: cfg.DiscordToken}, logger)
	}
	run.guard.Register(run.platform)
	run.platform.SetHandler(run.gate.Handle)

	if cfg.EventsAddr != "" {
		run.feed = ws.NewServer(cfg.EventsAddr, run.bus, logger)
	}

	return run, nil
}

// Start arma el runtime y lanza la plataforma, el feed, el log de actividad
// y la purga de caché.
func Start(ctx context.Context, opts Options) (*Runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	run, err := New(opts)
	if err != nil {
		return nil, err
	}
	run.Run(ctx)
	return run, nil
}

// Run lanza los servicios en segundo plano. Wait devuelve el primer error.
func (r *Runtime) Run(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	r.cancel = cancel
	r.group = group

	group.Go(func() error {
		err := r.platform.Start(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	group.Go(func() error {
		r.activity.Run(groupCtx)
		return nil
	})

	if r.feed != nil {
		group.Go(func() error { return r.feed.Start(groupCtx) })
	}

	if r.store != nil {
		group.Go(func() error {
			r.purgeLoop(groupCtx)
			return nil
		})
	}

	r.logger.Info("bot started",
		zap.String("prefix", r.cfg.CommandPrefix),
		zap.Bool("events_feed", r.feed != nil),
		zap.Bool("persistent_cache", r.store != nil),
	)
}

// Wait bloquea hasta que terminan los servicios lanzados por Run.
func (r *Runtime) Wait() error {
	if r.group == nil {
		return nil
	}
	return r.group.Wait()
}

// Stop cancela todo, espera a los comandos en curso y libera recursos.
func (r *Runtime) Stop() error {
	r.stopMu.Lock()
	defer r.stopMu.Unlock()
	if r.stopped {
		return nil
	}
	r.stopped = true

	if r.cancel != nil {
		r.cancel()
	}
	err := r.Wait()
	r.router.Close()
	r.bus.Close()
	r.cache.Close()
	r.closeStorage()

	r.logger.Info("bot stopped")
	return err
}

func (r *Runtime) purgeLoop(ctx context.Context) {
	ticker := r.clock.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			n, err := r.store.Purge(ctx)
			if err != nil {
				r.logger.Warn("cache purge failed", zap.Error(err))
				continue
			}
			r.logger.Debug("cache purged", zap.Int64("rows", n))
		}
	}
}

func (r *Runtime) closeStorage() {
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.logger.Warn("close response cache", zap.Error(err))
	}
}

// DispatchMessage pasa un mensaje por la misma puerta que los de la plataforma.
func (r *Runtime) DispatchMessage(ctx context.Context, msg domain.Message) {
	r.gate.Handle(ctx, msg)
}

func (r *Runtime) Bus() *events.Bus {
	return r.bus
}

func (r *Runtime) Config() *config.Config {
	return r.cfg
}

func (r *Runtime) Commands() []commands.Command {
	return r.router.Commands()
}
