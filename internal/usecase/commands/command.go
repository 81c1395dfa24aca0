package commands

import (
	"context"
	"time"

	"discoBot/internal/domain"
	"discoBot/internal/usecase/waiter"
)

type Command interface {
	Name() string
	Aliases() []string
	Handle(ctx context.Context, c *Context) error
}

type Context struct {
	Message domain.Message
	Out     domain.OutgoingMessagePort

	// Name es el token con el que se invocó (puede ser un alias).
	Name string
	Raw  string
	Args []string
}

func (c *Context) Reply(ctx context.Context, text string) error {
	return c.Out.SendMessage(ctx, c.Message.ChannelID, text)
}

func (c *Context) ReplyEmbed(ctx context.Context, embed domain.Embed) error {
	return c.Out.SendEmbed(ctx, c.Message.ChannelID, embed)
}

// Typing es best-effort: un fallo no corta el comando.
func (c *Context) Typing(ctx context.Context) {
	_ = c.Out.Typing(ctx, c.Message.ChannelID)
}

// Waiter es la parte del registro de esperas que usan los comandos
// conversacionales.
type Waiter interface {
	Register(owner string, pred waiter.Predicate, timeout time.Duration) *waiter.Wait
}

// awaitReply registra la espera antes de enviar el prompt para no perder una
// respuesta muy rápida. Si el prompt falla, la espera se retira.
func awaitReply(ctx context.Context, w Waiter, owner string, pred waiter.Predicate, timeout time.Duration, prompt func() error) (waiter.Result, error) {
	wait := w.Register(owner, pred, timeout)
	if err := prompt(); err != nil {
		wait.Cancel()
		return waiter.Result{}, err
	}
	return wait.Await(ctx), nil
}
