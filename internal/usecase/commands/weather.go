package commands

import (
	"context"
	"errors"
	"strconv"

	"discoBot/internal/domain"
)

const (
	WeatherNotFoundText    = "City not found"
	WeatherUnavailableText = "Weather lookups are not available right now"
	weatherThumbnailURL    = "https://cdn-icons-png.flaticon.com/512/4851/4851776.png"
)

type WeatherCommand struct {
	source domain.WeatherSource
	prefix string
}

func NewWeatherCommand(source domain.WeatherSource, prefix string) *WeatherCommand {
	return &WeatherCommand{source: source, prefix: prefix}
}

func (w *WeatherCommand) Name() string      { return "weather" }
func (w *WeatherCommand) Aliases() []string { return nil }

func (w *WeatherCommand) Handle(ctx context.Context, c *Context) error {
	city := c.Raw
	if city == "" {
		return c.Reply(ctx, usageFor(w.prefix, w.Name()))
	}

	c.Typing(ctx)
	report, err := w.source.Current(ctx, city)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Reply(ctx, WeatherNotFoundText)
	}
	if errors.Is(err, domain.ErrUnavailable) {
		return c.Reply(ctx, WeatherUnavailableText)
	}
	if err != nil {
		return err
	}

	return c.ReplyEmbed(ctx, WeatherEmbed(city, report, c.Message))
}

// WeatherEmbed arma la respuesta con el nombre tal como lo escribió el usuario.
func WeatherEmbed(city string, report domain.Weather, invocation domain.Message) domain.Embed {
	return domain.Embed{
		Title: "Weather in " + city,
		Fields: []domain.EmbedField{
			{Name: "Description", Value: report.Description},
			{Name: "Temperature(C)", Value: formatNumber(report.Temperature) + "°C"},
			{Name: "Humidity(%)", Value: formatNumber(report.Humidity) + "%"},
		},
		ThumbnailURL: weatherThumbnailURL,
		Timestamp:    invocation.Timestamp,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
