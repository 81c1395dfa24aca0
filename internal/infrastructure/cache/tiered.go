// Package cache implementa la caché de respuestas en dos niveles:
// memoria (ristretto) delante de un almacén persistente opcional.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Store es lo que consumen los clientes HTTP que cachean respuestas.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// ColdStore es el nivel persistente. Get sólo devuelve entradas vigentes.
type ColdStore interface {
	Get(ctx context.Context, key string) ([]byte, time.Time, bool, error)
	Put(ctx context.Context, key string, value []byte, expiresAt time.Time) error
}

type Options struct {
	// MaxBytes es el presupuesto del nivel en memoria.
	MaxBytes int64
	Cold     ColdStore
	Clock    clockwork.Clock
	Logger   *zap.Logger
}

type Tiered struct {
	hot    *ristretto.Cache
	cold   ColdStore
	clock  clockwork.Clock
	logger *zap.Logger
}

func NewTiered(opts Options) (*Tiered, error) {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 16 << 20
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	hot, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        1e4,
		MaxCost:            opts.MaxBytes,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: new ristretto: %w", err)
	}

	return &Tiered{
		hot:    hot,
		cold:   opts.Cold,
		clock:  opts.Clock,
		logger: opts.Logger,
	}, nil
}

// Get busca primero en memoria y después en el almacén persistente. Un acierto
// en frío se promueve a memoria con el tiempo de vida que le quede.
func (c *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.hot.Get(key); ok {
		if body, ok := v.([]byte); ok {
			return body, true
		}
	}
	if c.cold == nil {
		return nil, false
	}

	body, expiresAt, ok, err := c.cold.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cold cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if remaining := expiresAt.Sub(c.clock.Now()); remaining > 0 {
		c.hot.SetWithTTL(key, body, int64(len(body)), remaining)
	}
	return body, true
}

// Set guarda en ambos niveles. ttl <= 0 no guarda nada.
func (c *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.hot.SetWithTTL(key, value, int64(len(value)), ttl)

	if c.cold == nil {
		return
	}
	if err := c.cold.Put(ctx, key, value, c.clock.Now().Add(ttl)); err != nil {
		c.logger.Warn("cold cache write failed", zap.String("key", key), zap.Error(err))
	}
}

var _ Store = (*Tiered)(nil)

// Wait bloquea hasta que las escrituras en memoria pendientes sean visibles.
func (c *Tiered) Wait() {
	c.hot.Wait()
}

func (c *Tiered) Close() {
	c.hot.Close()
}
