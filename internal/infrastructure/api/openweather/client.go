// Package openweather consulta el clima actual en OpenWeatherMap.
package openweather

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"discoBot/internal/domain"
	"discoBot/internal/infrastructure/api/httpx"
)

// ErrNoAPIKey se devuelve cuando el bot arrancó sin WEATHER_KEY.
var ErrNoAPIKey = fmt.Errorf("openweather: api key not configured: %w", domain.ErrUnavailable)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type apiResponse struct {
	// cod llega como número (200) o como texto ("404").
	Cod  any    `json:"cod"`
	Name string `json:"name"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (c *Client) Current(ctx context.Context, city string) (domain.Weather, error) {
	if c.apiKey == "" {
		return domain.Weather{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("appid", c.apiKey)
	q.Set("q", city)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("openweather: new request: %w", err)
	}

	status, body, err := httpx.Do(c.httpClient, req)
	if err != nil {
		return domain.Weather{}, fmt.Errorf("openweather: current: %w", err)
	}
	if status == http.StatusNotFound {
		return domain.Weather{}, domain.ErrNotFound
	}
	if !httpx.IsSuccess(status) {
		return domain.Weather{}, fmt.Errorf("openweather: current: %w", httpx.StatusError(status, body))
	}

	var payload apiResponse
	if err := httpx.Decode(bytes.TrimSpace(body), &payload); err != nil {
		return domain.Weather{}, fmt.Errorf("openweather: current: %w", err)
	}
	if fmt.Sprint(payload.Cod) == "404" {
		return domain.Weather{}, domain.ErrNotFound
	}
	if payload.Main == nil || len(payload.Weather) == 0 {
		return domain.Weather{}, fmt.Errorf("openweather: current: %w: missing main/weather", domain.ErrMalformedResponse)
	}

	return domain.Weather{
		City:        city,
		Description: payload.Weather[0].Description,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
	}, nil
}

var _ domain.WeatherSource = (*Client)(nil)
