package outs

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"discoBot/internal/domain"
)

// Sender es lo que debe implementar el adapter de salida de la plataforma.
type Sender interface {
	domain.OutgoingMessagePort
	domain.MessageDeleter
}

// Guard envuelve al Sender: todo error sale como domain.ErrDeliveryFailed y
// queda registrado. No reintenta.
type Guard struct {
	mu     sync.RWMutex
	sender Sender
	logger *zap.Logger
}

func NewGuard(logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{logger: logger.Named("outs")}
}

// Register asocia el sender concreto. Se puede registrar después de crear el
// router, cuando la sesión ya existe.
func (g *Guard) Register(sender Sender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sender = sender
}

func (g *Guard) Unregister() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sender = nil
}

func (g *Guard) current() (Sender, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.sender == nil {
		return nil, fmt.Errorf("%w: no sender registered", domain.ErrDeliveryFailed)
	}
	return g.sender, nil
}

func (g *Guard) SendMessage(ctx context.Context, channelID, text string) error {
	return g.do("send_message", channelID, func(s Sender) error {
		return s.SendMessage(ctx, channelID, text)
	})
}

func (g *Guard) SendEmbed(ctx context.Context, channelID string, embed domain.Embed) error {
	return g.do("send_embed", channelID, func(s Sender) error {
		return s.SendEmbed(ctx, channelID, embed)
	})
}

func (g *Guard) Typing(ctx context.Context, channelID string) error {
	return g.do("typing", channelID, func(s Sender) error {
		return s.Typing(ctx, channelID)
	})
}

func (g *Guard) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return g.do("delete_message", channelID, func(s Sender) error {
		return s.DeleteMessage(ctx, channelID, messageID)
	})
}

func (g *Guard) do(op, channelID string, fn func(Sender) error) error {
	s, err := g.current()
	if err == nil {
		err = fn(s)
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", domain.ErrDeliveryFailed, op, err)
		}
	}
	if err != nil {
		g.logger.Warn("delivery failed",
			zap.String("op", op),
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}
	return err
}

var (
	_ domain.OutgoingMessagePort = (*Guard)(nil)
	_ domain.MessageDeleter      = (*Guard)(nil)
)
