package outs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"discoBot/internal/domain"
)

type fakeSender struct {
	err   error
	calls []string
}

func (f *fakeSender) SendMessage(_ context.Context, channelID, text string) error {
	f.calls = append(f.calls, "msg:"+channelID+":"+text)
	return f.err
}

func (f *fakeSender) SendEmbed(_ context.Context, channelID string, embed domain.Embed) error {
	f.calls = append(f.calls, "embed:"+channelID+":"+embed.Title)
	return f.err
}

func (f *fakeSender) Typing(_ context.Context, channelID string) error {
	f.calls = append(f.calls, "typing:"+channelID)
	return f.err
}

func (f *fakeSender) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.calls = append(f.calls, "delete:"+channelID+":"+messageID)
	return f.err
}

func TestGuard_Delegates(t *testing.T) {
	sender := &fakeSender{}
	g := NewGuard(nil)
	g.Register(sender)
	ctx := context.Background()

	require.NoError(t, g.SendMessage(ctx, "c", "hi"))
	require.NoError(t, g.SendEmbed(ctx, "c", domain.Embed{Title: "T"}))
	require.NoError(t, g.Typing(ctx, "c"))
	require.NoError(t, g.DeleteMessage(ctx, "c", "m"))

	assert.Equal(t, []string{"msg:c:hi", "embed:c:T", "typing:c", "delete:c:m"}, sender.calls)
}

func TestGuard_WrapsAndLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	boom := errors.New("403 forbidden")
	g := NewGuard(zap.New(core))
	g.Register(&fakeSender{err: boom})

	err := g.SendMessage(context.Background(), "c", "hi")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.ErrorIs(t, err, boom)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "delivery failed", entry.Message)
	assert.Equal(t, "send_message", entry.ContextMap()["op"])
}

func TestGuard_WithoutSender(t *testing.T) {
	g := NewGuard(nil)
	err := g.Typing(context.Background(), "c")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)

	g.Register(&fakeSender{})
	g.Unregister()
	assert.ErrorIs(t, g.SendMessage(context.Background(), "c", "x"), domain.ErrDeliveryFailed)
}
