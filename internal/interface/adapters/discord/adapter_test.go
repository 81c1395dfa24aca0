package discordadapter

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoBot/internal/domain"
	"discoBot/internal/usecase/waiter"
)

func TestToDomain(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	m := &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   "/trivia",
		Timestamp: ts,
		Author:    &discordgo.User{ID: "u1", Username: "ana", Bot: true},
	}

	assert.Equal(t, domain.Message{
		ID: "m1", ChannelID: "c1", GuildID: "g1", UserID: "u1", Username: "ana",
		Text: "/trivia", Timestamp: ts, IsBot: true,
	}, ToDomain(m))
}

func TestToEmbed(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.FixedZone("X", 3600))
	got := ToEmbed(domain.Embed{
		Title:        "Weather in Lima",
		Fields:       []domain.EmbedField{{Name: "1.)", Value: "a", Inline: true}},
		Footer:       "foot",
		ThumbnailURL: "https://img",
		Timestamp:    ts,
	})

	assert.Equal(t, "Weather in Lima", got.Title)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, &discordgo.MessageEmbedField{Name: "1.)", Value: "a", Inline: true}, got.Fields[0])
	assert.Equal(t, "foot", got.Footer.Text)
	assert.Equal(t, "https://img", got.Thumbnail.URL)
	assert.Equal(t, "2024-02-03T03:05:06Z", got.Timestamp)

	bare := ToEmbed(domain.Embed{Title: "x"})
	assert.Nil(t, bare.Footer)
	assert.Nil(t, bare.Thumbnail)
	assert.Empty(t, bare.Timestamp)
}

func TestAdapter_OnMessageDropsOwnMessages(t *testing.T) {
	a := NewAdapter(Config{}, nil)
	var got []domain.Message
	a.SetHandler(func(_ context.Context, msg domain.Message) { got = append(got, msg) })
	a.selfID = "bot"

	a.onMessage(context.Background(), &discordgo.Message{ID: "1", Author: &discordgo.User{ID: "bot", Bot: true}})
	a.onMessage(context.Background(), &discordgo.Message{ID: "2", Author: &discordgo.User{ID: "otherbot", Bot: true}})
	a.onMessage(context.Background(), &discordgo.Message{ID: "3", Author: &discordgo.User{ID: "u1"}})
	a.onMessage(context.Background(), &discordgo.Message{ID: "4"})

	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.True(t, got[0].IsBot)
	assert.Equal(t, "3", got[1].ID)
}

func TestAdapter_SendWithoutSession(t *testing.T) {
	a := NewAdapter(Config{}, nil)
	assert.Error(t, a.SendMessage(context.Background(), "c", "x"))
	assert.Error(t, a.SendEmbed(context.Background(), "c", domain.Embed{}))
	assert.Error(t, a.Typing(context.Background(), "c"))
	assert.Error(t, a.DeleteMessage(context.Background(), "c", "m"))
}

func TestAdapter_StartRequiresToken(t *testing.T) {
	assert.Error(t, NewAdapter(Config{Token: "  "}, nil).Start(context.Background()))
}

func TestIsRESTCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &discordgo.RESTError{
		Response: &http.Response{Status: "404 Not Found"},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage},
	})
	assert.True(t, isRESTCode(err, discordgo.ErrCodeUnknownMessage))
	assert.False(t, isRESTCode(err, discordgo.ErrCodeMissingPermissions))
	assert.False(t, isRESTCode(fmt.Errorf("plain"), discordgo.ErrCodeUnknownMessage))
}

func TestNewSession_DeliversEventsInOrder(t *testing.T) {
	s, err := newSession("abc")
	require.NoError(t, err)
	assert.True(t, s.SyncEvents)
	assert.Equal(t, Intents, s.Identify.Intents)
	assert.Equal(t, "Bot abc", s.Identify.Token)

	s, err = newSession("Bot abc")
	require.NoError(t, err)
	assert.Equal(t, "Bot abc", s.Identify.Token)

	_, err = newSession(" ")
	assert.Error(t, err)
}

func TestAdapter_EarlierReplyResolvesWait(t *testing.T) {
	reg := waiter.NewRegistry(clockwork.NewFakeClock(), nil)
	w := reg.Register("u1", nil, 15*time.Second)

	a := NewAdapter(Config{}, nil)
	a.SetHandler(func(_ context.Context, msg domain.Message) { reg.Notify(msg) })

	a.onMessage(context.Background(), &discordgo.Message{ID: "1", Content: "1", Author: &discordgo.User{ID: "u1"}})
	a.onMessage(context.Background(), &discordgo.Message{ID: "2", Content: "2", Author: &discordgo.User{ID: "u1"}})

	res := w.Await(context.Background())
	assert.Equal(t, waiter.Matched, res.Outcome)
	assert.Equal(t, "1", res.Message.Text)
}
