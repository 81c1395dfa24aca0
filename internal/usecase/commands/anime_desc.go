package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"discoBot/internal/domain"
	"discoBot/internal/usecase/chunker"
	"discoBot/internal/usecase/waiter"
)

const (
	AnimeCategoryPrompt = "What are you looking for info on? [ anime, manga, character ]"
	AnimeNotFoundText   = "Could not find what you are looking for. Sorry!"
	AnimeTimeoutText    = "Sorry, you took too long."
)

var lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// StripLineBreaks quita las etiquetas <br> que trae AniList.
func StripLineBreaks(s string) string {
	return lineBreakTag.ReplaceAllString(s, "")
}

// IsMediaCategory acepta anime, manga o character en cualquier capitalización.
func IsMediaCategory(msg domain.Message) bool {
	_, ok := domain.ParseMediaCategory(msg.Text)
	return ok
}

type AnimeDescCommand struct {
	source  domain.MediaSource
	waiter  Waiter
	timeout time.Duration
	prefix  string
}

func NewAnimeDescCommand(source domain.MediaSource, w Waiter, timeout time.Duration, prefix string) *AnimeDescCommand {
	return &AnimeDescCommand{source: source, waiter: w, timeout: timeout, prefix: prefix}
}

func (a *AnimeDescCommand) Name() string      { return "anime_desc" }
func (a *AnimeDescCommand) Aliases() []string { return nil }

func (a *AnimeDescCommand) Handle(ctx context.Context, c *Context) error {
	name := c.Raw
	if name == "" {
		return c.Reply(ctx, usageFor(a.prefix, a.Name()))
	}

	c.Typing(ctx)
	res, err := awaitReply(ctx, a.waiter, c.Message.UserID, IsMediaCategory, a.timeout, func() error {
		return c.Reply(ctx, AnimeCategoryPrompt)
	})
	if err != nil {
		return err
	}

	switch res.Outcome {
	case waiter.Matched:
	case waiter.TimedOut:
		return c.Reply(ctx, AnimeTimeoutText)
	default:
		return ctx.Err()
	}

	category, _ := domain.ParseMediaCategory(res.Message.Text)

	c.Typing(ctx)
	desc, err := a.source.Describe(ctx, category, name)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Reply(ctx, AnimeNotFoundText)
	}
	if err != nil {
		return err
	}

	desc = StripLineBreaks(desc)
	parts := chunker.Chunk(desc, domain.MaxMessageLength)
	if len(parts) == 0 {
		return c.Reply(ctx, AnimeNotFoundText)
	}
	if len(parts) == 1 {
		return c.Reply(ctx, desc)
	}
	for i, part := range parts {
		embed := domain.Embed{
			Title:       fmt.Sprintf("%s Description, Part %d", name, i+1),
			Description: part,
		}
		if err := c.ReplyEmbed(ctx, embed); err != nil {
			return err
		}
	}
	return nil
}
