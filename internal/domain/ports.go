package domain

import "context"

type OutgoingMessagePort interface {
	SendMessage(ctx context.Context, channelID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed Embed) error
	// Typing muestra el indicador "escribiendo..." en el canal.
	Typing(ctx context.Context, channelID string) error
}

// MessageDeleter lo usa el gate de moderación para borrar mensajes en origen.
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}
