package notifications

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"discoBot/internal/app/events"
)

// EventLogger deja en el log una línea JSON por cada evento de moderación o
// de comandos, para facilitar la futura ingesta.
type EventLogger struct {
	bus    *events.Bus
	logger *zap.Logger
	now    func() time.Time
	topics []string
}

func NewEventLogger(bus *events.Bus, logger *zap.Logger) *EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLogger{
		bus:    bus,
		logger: logger.Named("activity"),
		now:    time.Now,
		topics: []string{
			events.TopicMessageRemoved,
			events.TopicCommandHandled,
			events.TopicCommandFailed,
		},
	}
}

// Run consume los temas hasta que se cancela ctx o se cierra el bus.
func (l *EventLogger) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, topic := range l.topics {
		ch, unsubscribe := l.bus.Subscribe(topic)
		wg.Add(1)
		go func(topic string, ch <-chan any) {
			defer wg.Done()
			defer unsubscribe()
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-ch:
					if !ok {
						return
					}
					l.Handle(topic, payload)
				}
			}
		}(topic, ch)
	}
	wg.Wait()
}

// Handle registra un evento suelto.
func (l *EventLogger) Handle(topic string, payload any) {
	entry := map[string]any{
		"timestamp":  l.now().UTC().Format(time.RFC3339Nano),
		"event_type": topic,
		"payload":    payload,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Warn("event not serializable", zap.String("topic", topic), zap.Error(err))
		return
	}

	if topic == events.TopicCommandFailed {
		l.logger.Warn("event", zap.ByteString("data", data))
		return
	}
	l.logger.Info("event", zap.ByteString("data", data))
}
