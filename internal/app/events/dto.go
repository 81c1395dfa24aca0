package events

import (
	"time"

	"discoBot/internal/domain"
)

// MessageDTO describe un mensaje que pasó (o no) el filtro de moderación.
type MessageDTO struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Text      string `json:"text,omitempty"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewMessageDTO(msg domain.Message) MessageDTO {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return MessageDTO{
		MessageID: msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
		UserID:    msg.UserID,
		Username:  msg.Username,
		Text:      msg.Text,
		IsBot:     msg.IsBot,
		Timestamp: ts.UTC().Format(time.RFC3339Nano),
	}
}

// NewRemovedMessageDTO no incluye el texto: el mensaje fue retirado.
func NewRemovedMessageDTO(msg domain.Message, reason string) MessageDTO {
	dto := NewMessageDTO(msg)
	dto.Text = ""
	dto.Reason = reason
	return dto
}

// CommandDTO resume la ejecución de un comando.
type CommandDTO struct {
	Command    string `json:"command"`
	ChannelID  string `json:"channel_id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Args       string `json:"args,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	FinishedAt string `json:"finished_at"`
}

func NewCommandDTO(name string, msg domain.Message, raw string, elapsed time.Duration, err error) CommandDTO {
	dto := CommandDTO{
		Command:    name,
		ChannelID:  msg.ChannelID,
		UserID:     msg.UserID,
		Username:   msg.Username,
		Args:       raw,
		DurationMS: elapsed.Milliseconds(),
		FinishedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}
