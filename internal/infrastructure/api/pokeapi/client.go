// Package pokeapi resuelve el nombre de un Pokémon a partir de su número.
package pokeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"discoBot/internal/domain"
	"discoBot/internal/infrastructure/api/httpx"
	"discoBot/internal/infrastructure/cache"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Store
	ttl        time.Duration
}

// NewClient crea el cliente. Con store nil o ttl <= 0 no se cachea nada.
func NewClient(baseURL string, httpClient *http.Client, store cache.Store, ttl time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		cache:      store,
		ttl:        ttl,
	}
}

type listResponse struct {
	Count   int `json:"count"`
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

func (c *Client) Name(ctx context.Context, ordinal int) (string, error) {
	if ordinal < 1 {
		return "", domain.ErrNotFound
	}

	q := url.Values{}
	q.Set("limit", "1")
	q.Set("offset", strconv.Itoa(ordinal-1))
	endpoint := c.baseURL + "/api/v2/pokemon/?" + q.Encode()

	body, cached, err := c.fetch(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("pokeapi: name %d: %w", ordinal, err)
	}

	var payload listResponse
	if err := httpx.Decode(body, &payload); err != nil {
		return "", fmt.Errorf("pokeapi: name %d: %w", ordinal, err)
	}
	// sólo se guardan cuerpos 200 que además se pudieron decodificar
	if !cached && c.cache != nil && c.ttl > 0 {
		c.cache.Set(ctx, endpoint, body, c.ttl)
	}
	if len(payload.Results) == 0 || payload.Results[0].Name == "" {
		return "", domain.ErrNotFound
	}
	return payload.Results[0].Name, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, bool, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, endpoint); ok {
			return body, true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("new request: %w", err)
	}

	status, body, err := httpx.Do(c.httpClient, req)
	if err != nil {
		return nil, false, err
	}
	if status == http.StatusNotFound {
		return nil, false, domain.ErrNotFound
	}
	if status != http.StatusOK {
		return nil, false, httpx.StatusError(status, body)
	}
	return body, false, nil
}

var _ domain.CreatureIndex = (*Client)(nil)
