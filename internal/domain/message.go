package domain

import "time"

// MaxMessageLength es el límite de caracteres de un mensaje normal en Discord.
const MaxMessageLength = 2000

type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	UserID    string
	Username  string
	Text      string
	Timestamp time.Time

	// IsBot lo rellena el adapter cuando el autor es una cuenta bot.
	IsBot bool
}

// Embed es la respuesta enriquecida que los comandos pueden enviar.
type Embed struct {
	Title        string
	Description  string
	Fields       []EmbedField
	Footer       string
	ThumbnailURL string
	Timestamp    time.Time
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}
