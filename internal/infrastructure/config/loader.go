package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPrefix           = "/"
	DefaultReplyTimeout     = 15 * time.Second
	DefaultHTTPTimeout      = 10 * time.Second
	DefaultPokedexCacheTTL  = 360 * time.Second
	DefaultPokedexCachePath = "data/poke_cache.db"

	DefaultOpenTDBURL     = "https://opentdb.com"
	DefaultOpenWeatherURL = "http://api.openweathermap.org"
	DefaultPokeAPIURL     = "https://pokeapi.co"
	DefaultAniListURL     = "https://graphql.anilist.co"
)

type Config struct {
	DiscordToken string
	WeatherKey   string

	CommandPrefix string
	ReplyTimeout  time.Duration
	HTTPTimeout   time.Duration

	PokedexCacheTTL  time.Duration
	PokedexCachePath string

	ModerationMarkers []string
	EventsAddr        string
	LogLevel          string

	OpenTDBURL     string
	OpenWeatherURL string
	PokeAPIURL     string
	AniListURL     string
}

// Load lee el .env (si existe) y luego las variables de entorno.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		DiscordToken:      firstNonEmpty(os.Getenv("API_KEY"), os.Getenv("DISCORD_BOT_TOKEN")),
		WeatherKey:        strings.TrimSpace(os.Getenv("WEATHER_KEY")),
		CommandPrefix:     envString("BOT_PREFIX", DefaultPrefix),
		PokedexCachePath:  DefaultPokedexCachePath,
		ModerationMarkers: envList("MODERATION_MARKERS"),
		EventsAddr:        strings.TrimSpace(os.Getenv("EVENTS_WS_ADDR")),
		LogLevel:          envString("LOG_LEVEL", "info"),
		OpenTDBURL:        envString("OPENTDB_URL", DefaultOpenTDBURL),
		OpenWeatherURL:    envString("OPENWEATHER_URL", DefaultOpenWeatherURL),
		PokeAPIURL:        envString("POKEAPI_URL", DefaultPokeAPIURL),
		AniListURL:        envString("ANILIST_URL", DefaultAniListURL),
	}

	if path, ok := os.LookupEnv("POKEDEX_CACHE_PATH"); ok {
		cfg.PokedexCachePath = strings.TrimSpace(path)
	}

	var errs []error
	var err error
	if cfg.ReplyTimeout, err = envDuration("BOT_REPLY_TIMEOUT", DefaultReplyTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.PokedexCacheTTL, err = envDuration("POKEDEX_CACHE_TTL", DefaultPokedexCacheTTL); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

// Validate comprueba lo mínimo para conectar el bot.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}
	if c.DiscordToken == "" {
		return errors.New("config: API_KEY (discord bot token) is not set")
	}
	if strings.TrimSpace(c.CommandPrefix) == "" {
		return errors.New("config: BOT_PREFIX must not be empty")
	}
	if c.ReplyTimeout <= 0 {
		return errors.New("config: BOT_REPLY_TIMEOUT must be positive")
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envDuration acepta "15s", "2m" o segundos sin unidad ("15").
func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("config: %s inválido (%q)", key, raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
