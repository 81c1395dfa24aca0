package commands

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"discoBot/internal/app/events"
	"discoBot/internal/domain"
)

// ApologyText es la respuesta genérica cuando un comando falla.
const ApologyText = "Sorry, something went wrong while handling that command."

type Router struct {
	prefix   string
	cmdIndex map[string]Command
	commands []Command

	out    domain.OutgoingMessagePort
	bus    *events.Bus
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewRouter(prefix string, out domain.OutgoingMessagePort, bus *events.Bus, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		prefix:   prefix,
		cmdIndex: make(map[string]Command),
		out:      out,
		bus:      bus,
		logger:   logger.Named("router"),
	}
}

func (r *Router) Prefix() string {
	return r.prefix
}

func (r *Router) Register(cmd Command) {
	r.commands = append(r.commands, cmd)
	r.cmdIndex[strings.ToLower(cmd.Name())] = cmd
	for _, alias := range cmd.Aliases() {
		r.cmdIndex[strings.ToLower(alias)] = cmd
	}
}

// Commands devuelve los comandos en orden de registro.
func (r *Router) Commands() []Command {
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Parse separa el mensaje en token y argumentos. ok es false si no empieza
// con el prefijo o no trae token.
func (r *Router) Parse(text string) (name, raw string, args []string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" || !strings.HasPrefix(text, r.prefix) {
		return "", "", nil, false
	}

	withoutPrefix := strings.TrimPrefix(text, r.prefix)
	parts := strings.Fields(withoutPrefix)
	if len(parts) == 0 {
		return "", "", nil, false
	}
	// "/ trivia" no es un comando
	if !strings.HasPrefix(withoutPrefix, parts[0]) {
		return "", "", nil, false
	}

	name = strings.ToLower(parts[0])
	raw = strings.TrimSpace(strings.TrimPrefix(withoutPrefix, parts[0]))
	return name, raw, parts[1:], true
}

// Dispatch lanza el comando en su propia goroutine y devuelve enseguida.
// Devuelve false si el mensaje no es un comando conocido o el router ya se
// cerró.
func (r *Router) Dispatch(ctx context.Context, msg domain.Message) bool {
	if msg.IsBot {
		return false
	}

	name, raw, args, ok := r.Parse(msg.Text)
	if !ok {
		return false
	}

	cmd, ok := r.cmdIndex[name]
	if !ok {
		r.logger.Debug("unknown command", zap.String("command", name), zap.String("user_id", msg.UserID))
		return false
	}

	c := &Context{
		Message: msg,
		Out:     r.out,
		Name:    name,
		Raw:     raw,
		Args:    args,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Debug("router closed, command dropped", zap.String("command", name))
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.run(ctx, cmd, c)
	}()
	return true
}

// Wait bloquea hasta que terminen los comandos en curso.
func (r *Router) Wait() {
	r.wg.Wait()
}

// Close deja de aceptar comandos y espera a los que están en curso.
func (r *Router) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Router) run(ctx context.Context, cmd Command, c *Context) {
	start := time.Now()
	logger := r.logger.With(
		zap.String("command", cmd.Name()),
		zap.String("channel_id", c.Message.ChannelID),
		zap.String("user_id", c.Message.UserID),
	)

	err := r.invoke(ctx, cmd, c)
	elapsed := time.Since(start)

	if err == nil {
		logger.Debug("command handled", zap.Duration("elapsed", elapsed))
		r.bus.Publish(events.TopicCommandHandled, events.NewCommandDTO(cmd.Name(), c.Message, c.Raw, elapsed, nil))
		return
	}

	r.bus.Publish(events.TopicCommandFailed, events.NewCommandDTO(cmd.Name(), c.Message, c.Raw, elapsed, err))

	if errors.Is(err, domain.ErrDeliveryFailed) {
		logger.Warn("command reply not delivered", zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		logger.Debug("command aborted by shutdown", zap.Error(err))
		return
	}

	logger.Error("command failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	if sendErr := c.Reply(ctx, ApologyText); sendErr != nil {
		logger.Warn("apology not delivered", zap.Error(sendErr))
	}
}

func (r *Router) invoke(ctx context.Context, cmd Command, c *Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("command panicked",
				zap.String("command", cmd.Name()),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			err = fmt.Errorf("command %s panicked: %v", cmd.Name(), p)
		}
	}()
	return cmd.Handle(ctx, c)
}
