package events

import (
	"sync"

	"go.uber.org/zap"
)

const (
	TopicMessageForwarded = "message:forwarded"
	TopicMessageRemoved   = "message:removed"
	TopicCommandHandled   = "command:handled"
	TopicCommandFailed    = "command:failed"

	defaultBufferSize = 128
)

// Topics son todos los temas que publica el bot, en orden estable.
var Topics = []string{
	TopicMessageForwarded,
	TopicMessageRemoved,
	TopicCommandHandled,
	TopicCommandFailed,
}

type Bus struct {
	mu        sync.RWMutex
	subs      map[string]map[int]chan any
	nextSubID int
	closed    bool

	logger *zap.Logger

	dropMu     sync.Mutex
	dropCounts map[string]uint64
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:       make(map[string]map[int]chan any),
		dropCounts: make(map[string]uint64),
		logger:     logger.Named("events"),
	}
}

// Publish nunca bloquea: si el buffer de un suscriptor está lleno, el evento
// se descarta para ese suscriptor.
func (b *Bus) Publish(topic string, payload any) {
	if b == nil || topic == "" {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			b.recordDrop(topic)
		}
	}
}

func (b *Bus) Subscribe(topic string) (<-chan any, func()) {
	ch := make(chan any, defaultBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan any)
	}
	id := b.nextSubID
	b.nextSubID++
	b.subs[topic][id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs, ok := b.subs[topic]
			if !ok {
				return
			}
			if _, ok := subs[id]; !ok {
				return
			}
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Close cierra todas las suscripciones. Publish posterior es un no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subs, topic)
	}
}

// Subscribers devuelve cuántas suscripciones activas tiene topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Drops devuelve cuántos eventos se descartaron para topic.
func (b *Bus) Drops(topic string) uint64 {
	b.dropMu.Lock()
	defer b.dropMu.Unlock()
	return b.dropCounts[topic]
}

func (b *Bus) recordDrop(topic string) {
	b.dropMu.Lock()
	defer b.dropMu.Unlock()
	b.dropCounts[topic]++
	if b.dropCounts[topic]%100 == 1 {
		b.logger.Warn("dropping events",
			zap.String("topic", topic),
			zap.Uint64("total_drops", b.dropCounts[topic]),
		)
	}
}
