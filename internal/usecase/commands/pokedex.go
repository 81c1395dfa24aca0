package commands

import (
	"context"
	"errors"
	"strconv"

	"discoBot/internal/domain"
)

const PokedexNotFoundText = "There is no Pokemon with that number"

type PokedexCommand struct {
	index  domain.CreatureIndex
	prefix string
}

func NewPokedexCommand(index domain.CreatureIndex, prefix string) *PokedexCommand {
	return &PokedexCommand{index: index, prefix: prefix}
}

func (p *PokedexCommand) Name() string      { return "pokedex_entry" }
func (p *PokedexCommand) Aliases() []string { return nil }

func (p *PokedexCommand) Handle(ctx context.Context, c *Context) error {
	if len(c.Args) == 0 {
		return c.Reply(ctx, usageFor(p.prefix, p.Name()))
	}
	ordinal, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return c.Reply(ctx, usageFor(p.prefix, p.Name()))
	}

	c.Typing(ctx)
	if ordinal <= 0 {
		return c.Reply(ctx, PokedexNotFoundText)
	}

	name, err := p.index.Name(ctx, ordinal)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Reply(ctx, PokedexNotFoundText)
	}
	if err != nil {
		return err
	}
	return c.Reply(ctx, name)
}
