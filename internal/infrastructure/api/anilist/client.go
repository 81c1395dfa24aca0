// Package anilist busca descripciones de anime, manga y personajes en la API
// GraphQL de AniList.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"discoBot/internal/domain"
	"discoBot/internal/infrastructure/api/httpx"
)

const (
	mediaQuery = `query ($search: String, $type: MediaType) {
  Media(search: $search, type: $type) {
    description
  }
}`

	characterQuery = `query ($search: String) {
  Character(search: $search) {
    description
  }
}`
)

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type described struct {
	Description *string `json:"description"`
}

type graphQLResponse struct {
	Data struct {
		Media     *described `json:"Media"`
		Character *described `json:"Character"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

func (c *Client) Describe(ctx context.Context, category domain.MediaCategory, name string) (string, error) {
	payload := graphQLRequest{Variables: map[string]any{"search": name}}
	switch category {
	case domain.MediaAnime:
		payload.Query = mediaQuery
		payload.Variables["type"] = "ANIME"
	case domain.MediaManga:
		payload.Query = mediaQuery
		payload.Variables["type"] = "MANGA"
	case domain.MediaCharacter:
		payload.Query = characterQuery
	default:
		return "", fmt.Errorf("anilist: unknown category %q", category)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("anilist: marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("anilist: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := httpx.Do(c.httpClient, req)
	if err != nil {
		return "", fmt.Errorf("anilist: describe: %w", err)
	}
	// AniList contesta 404 con un cuerpo GraphQL cuando no hay coincidencias.
	if status == http.StatusNotFound {
		return "", domain.ErrNotFound
	}
	if !httpx.IsSuccess(status) {
		return "", fmt.Errorf("anilist: describe: %w", httpx.StatusError(status, body))
	}

	var resp graphQLResponse
	if err := httpx.Decode(body, &resp); err != nil {
		return "", fmt.Errorf("anilist: describe: %w", err)
	}

	node := resp.Data.Media
	if category == domain.MediaCharacter {
		node = resp.Data.Character
	}
	if node == nil || node.Description == nil || strings.TrimSpace(*node.Description) == "" {
		return "", domain.ErrNotFound
	}
	return *node.Description, nil
}

var _ domain.MediaSource = (*Client)(nil)
