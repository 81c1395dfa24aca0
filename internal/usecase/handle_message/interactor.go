// Package handle_message es la puerta de entrada de cada mensaje: moderación,
// esperas pendientes y despacho de comandos, en ese orden.
package handle_message

import (
	"context"

	"go.uber.org/zap"

	"discoBot/internal/app/events"
	"discoBot/internal/domain"
	"discoBot/internal/usecase/moderation"
)

// Notifier recibe cada mensaje que pasa la moderación.
type Notifier interface {
	Notify(msg domain.Message) bool
}

// Dispatcher lanza el comando si el mensaje es uno.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg domain.Message) bool
}

type Interactor struct {
	rule    moderation.Rule
	deleter domain.MessageDeleter
	waits   Notifier
	router  Dispatcher
	bus     *events.Bus
	logger  *zap.Logger
}

func NewInteractor(rule moderation.Rule, deleter domain.MessageDeleter, waits Notifier, router Dispatcher, bus *events.Bus, logger *zap.Logger) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{
		rule:    rule,
		deleter: deleter,
		waits:   waits,
		router:  router,
		bus:     bus,
		logger:  logger.Named("gate"),
	}
}

// Handle no bloquea: los comandos corren en sus propias goroutines.
func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) {
	if uc.rule != nil && uc.rule.Violates(msg.Text) {
		uc.remove(ctx, msg)
		return
	}

	uc.bus.Publish(events.TopicMessageForwarded, events.NewMessageDTO(msg))

	resolved := uc.waits != nil && uc.waits.Notify(msg)
	dispatched := uc.router != nil && uc.router.Dispatch(ctx, msg)

	if resolved || dispatched {
		uc.logger.Debug("message forwarded",
			zap.String("message_id", msg.ID),
			zap.String("user_id", msg.UserID),
			zap.Bool("resolved_wait", resolved),
			zap.Bool("dispatched", dispatched),
		)
	}
}

func (uc *Interactor) remove(ctx context.Context, msg domain.Message) {
	logger := uc.logger.With(
		zap.String("message_id", msg.ID),
		zap.String("channel_id", msg.ChannelID),
		zap.String("user_id", msg.UserID),
	)

	if uc.deleter != nil {
		if err := uc.deleter.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
			logger.Warn("could not delete moderated message", zap.Error(err))
		} else {
			logger.Info("moderated message deleted")
		}
	}

	uc.bus.Publish(events.TopicMessageRemoved, events.NewRemovedMessageDTO(msg, "link"))
}
