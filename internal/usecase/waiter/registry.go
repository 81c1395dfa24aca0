// Package waiter lleva la tabla de esperas abiertas: un comando registra que
// espera la próxima respuesta válida de un usuario y el gate de mensajes la
// resuelve cuando llega, o el temporizador la expira.
package waiter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"discoBot/internal/domain"
)

// Predicate decides whether a message from the owner qualifies as the reply.
type Predicate func(msg domain.Message) bool

type Outcome int

const (
	Matched Outcome = iota + 1
	TimedOut
	// Cancelled only happens when the awaiting context ends (shutdown).
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case TimedOut:
		return "timed_out"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Result struct {
	Outcome Outcome
	Message domain.Message
}

type Wait struct {
	ID       string
	Owner    string
	Deadline time.Time

	pred  Predicate
	timer clockwork.Timer
	done  chan Result
	reg   *Registry
}

// Await blocks until the wait is resolved or ctx ends.
func (w *Wait) Await(ctx context.Context) Result {
	select {
	case res := <-w.done:
		return res
	case <-ctx.Done():
		if w.reg.cancel(w) {
			return Result{Outcome: Cancelled}
		}
		// Se resolvió justo antes de cancelar; el resultado ya está en el buffer.
		return <-w.done
	}
}

// Cancel retira la espera sin resolverla. Devuelve false si ya estaba resuelta.
func (w *Wait) Cancel() bool {
	return w.reg.cancel(w)
}

type Registry struct {
	clock  clockwork.Clock
	logger *zap.Logger

	mu    sync.Mutex
	waits []*Wait
}

func NewRegistry(clock clockwork.Clock, logger *zap.Logger) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		clock:  clock,
		logger: logger.Named("waiter"),
	}
}

// Register adds a wait for the next message from owner that satisfies pred.
// A nil pred accepts any message from owner.
func (r *Registry) Register(owner string, pred Predicate, timeout time.Duration) *Wait {
	w := &Wait{
		ID:    uuid.NewString(),
		Owner: owner,
		pred:  pred,
		done:  make(chan Result, 1),
		reg:   r,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w.Deadline = r.clock.Now().Add(timeout)
	r.waits = append(r.waits, w)
	w.timer = r.clock.AfterFunc(timeout, func() { r.expire(w) })

	r.logger.Debug("wait registered",
		zap.String("wait_id", w.ID),
		zap.String("owner", owner),
		zap.Duration("timeout", timeout),
		zap.Int("pending", len(r.waits)))
	return w
}

// Wait registers and awaits in one call.
func (r *Registry) Wait(ctx context.Context, owner string, pred Predicate, timeout time.Duration) Result {
	return r.Register(owner, pred, timeout).Await(ctx)
}

// Notify offers msg to the outstanding waits of its author, oldest first, and
// resolves at most one. It reports whether a wait was resolved.
func (r *Registry) Notify(msg domain.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.waits) == 0 {
		return false
	}
	now := r.clock.Now()

	for i, w := range r.waits {
		if w.Owner != msg.UserID {
			continue
		}
		// El plazo venció pero el temporizador aún no corrió: expire se encarga.
		if !now.Before(w.Deadline) {
			continue
		}
		if w.pred != nil && !w.pred(msg) {
			continue
		}

		r.removeLocked(i)
		w.timer.Stop()
		w.done <- Result{Outcome: Matched, Message: msg}

		r.logger.Debug("wait matched",
			zap.String("wait_id", w.ID),
			zap.String("owner", w.Owner),
			zap.String("message_id", msg.ID))
		return true
	}
	return false
}

// Pending returns the number of outstanding waits.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waits)
}

func (r *Registry) expire(w *Wait) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(w)
	if i < 0 {
		return
	}
	r.removeLocked(i)
	w.done <- Result{Outcome: TimedOut}

	r.logger.Debug("wait timed out", zap.String("wait_id", w.ID), zap.String("owner", w.Owner))
}

func (r *Registry) cancel(w *Wait) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(w)
	if i < 0 {
		return false
	}
	r.removeLocked(i)
	w.timer.Stop()
	return true
}

func (r *Registry) indexLocked(w *Wait) int {
	for i, candidate := range r.waits {
		if candidate == w {
			return i
		}
	}
	return -1
}

func (r *Registry) removeLocked(i int) {
	copy(r.waits[i:], r.waits[i+1:])
	r.waits[len(r.waits)-1] = nil
	r.waits = r.waits[:len(r.waits)-1]
}
