package commands

import (
	"context"
	"fmt"
	"strings"

	"discoBot/internal/domain"
)

type HelpCommand struct {
	prefix string
}

func NewHelpCommand(prefix string) *HelpCommand {
	return &HelpCommand{prefix: prefix}
}

func (h *HelpCommand) Name() string      { return "help" }
func (h *HelpCommand) Aliases() []string { return nil }

func (h *HelpCommand) Handle(ctx context.Context, c *Context) error {
	if len(c.Args) > 0 {
		name := strings.ToLower(strings.TrimPrefix(c.Args[0], h.prefix))
		d, ok := Describe(name)
		if !ok {
			return c.Reply(ctx, fmt.Sprintf("No command called %q.", name))
		}
		return c.Reply(ctx, fmt.Sprintf("%s\n%s", h.usage(d), d.Description))
	}

	embed := domain.Embed{
		Title:  "Commands",
		Footer: fmt.Sprintf("Type %shelp <command> for more info on a command.", h.prefix),
	}
	for _, d := range BuiltinCommandCatalog() {
		embed.Fields = append(embed.Fields, domain.EmbedField{
			Name:  h.usage(d),
			Value: d.Description,
		})
	}
	return c.ReplyEmbed(ctx, embed)
}

func (h *HelpCommand) usage(d CommandDescriptor) string {
	return strings.ReplaceAll(d.Usage, "{prefix}", h.prefix)
}

// usageFor se usa en las respuestas de "falta argumento".
func usageFor(prefix, name string) string {
	d, ok := Describe(name)
	if !ok {
		return ""
	}
	return "Usage: " + strings.ReplaceAll(d.Usage, "{prefix}", prefix)
}
