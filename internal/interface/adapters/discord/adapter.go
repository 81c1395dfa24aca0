// Package discordadapter conecta la sesión de Discord con el dominio.
package discordadapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"discoBot/internal/domain"
)

// Intents que necesita el bot: mensajes de servidores y DMs, con contenido.
const Intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentMessageContent

type Config struct {
	Token string
}

type MessageHandler func(ctx context.Context, msg domain.Message)

type Adapter struct {
	cfg     Config
	logger  *zap.Logger
	handler MessageHandler

	mu      sync.RWMutex
	session *discordgo.Session
	selfID  string
}

func NewAdapter(cfg Config, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cfg: cfg, logger: logger.Named("discord")}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// Start abre la sesión y bloquea hasta que ctx termina.
func (a *Adapter) Start(ctx context.Context) error {
	session, err := newSession(a.cfg.Token)
	if err != nil {
		return err
	}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		if r.User == nil {
			return
		}
		a.mu.Lock()
		a.selfID = r.User.ID
		a.mu.Unlock()
		a.logger.Info("logged in", zap.String("user", r.User.Username), zap.String("user_id", r.User.ID))
	})
	session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Message == nil {
			return
		}
		a.onMessage(ctx, m.Message)
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("discord: open: %w", err)
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	<-ctx.Done()

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()

	if err := session.Close(); err != nil {
		a.logger.Warn("close session", zap.Error(err))
	}
	return ctx.Err()
}

// newSession prepara la sesión sin abrirla. Los eventos se entregan en orden
// de llegada, uno detrás de otro: las esperas abiertas dependen de ese orden.
func newSession(token string) (*discordgo.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("discord: empty bot token")
	}
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}

	session, err := discordgo.New(token)
	if err != nil {
		return nil, fmt.Errorf("discord: new session: %w", err)
	}
	session.Identify.Intents = Intents
	session.SyncEvents = true
	return session, nil
}

func (a *Adapter) onMessage(ctx context.Context, m *discordgo.Message) {
	a.mu.RLock()
	handler := a.handler
	selfID := a.selfID
	a.mu.RUnlock()

	if handler == nil || m.Author == nil {
		return
	}
	// los mensajes propios nunca entran al bot
	if selfID != "" && m.Author.ID == selfID {
		return
	}

	handler(ctx, ToDomain(m))
}

func (a *Adapter) current() (*discordgo.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil, errors.New("discord: session not open")
	}
	return a.session, nil
}

func (a *Adapter) SendMessage(ctx context.Context, channelID, text string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}

func (a *Adapter) SendEmbed(ctx context.Context, channelID string, embed domain.Embed) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	_, err = s.ChannelMessageSendEmbed(channelID, ToEmbed(embed), discordgo.WithContext(ctx))
	return err
}

func (a *Adapter) Typing(ctx context.Context, channelID string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	return s.ChannelTyping(channelID, discordgo.WithContext(ctx))
}

// DeleteMessage trata "mensaje desconocido" como borrado: ya no existe.
func (a *Adapter) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	s, err := a.current()
	if err != nil {
		return err
	}
	err = s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	if isRESTCode(err, discordgo.ErrCodeUnknownMessage) {
		return nil
	}
	return err
}

func isRESTCode(err error, code int) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	return restErr.Message.Code == code
}

func ToDomain(m *discordgo.Message) domain.Message {
	msg := domain.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Text:      m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.UserID = m.Author.ID
		msg.Username = m.Author.Username
		msg.IsBot = m.Author.Bot
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return msg
}

func ToEmbed(e domain.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.ThumbnailURL != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.ThumbnailURL}
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}
