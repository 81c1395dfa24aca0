// Package opentdb consulta preguntas de trivia en Open Trivia DB.
package opentdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"discoBot/internal/domain"
	"discoBot/internal/infrastructure/api/httpx"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	difficulty string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		difficulty: "medium",
	}
}

type apiResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// Question pide una pregunta de opción múltiple. El texto llega con entidades HTML.
func (c *Client) Question(ctx context.Context) (domain.TriviaQuestion, error) {
	q := url.Values{}
	q.Set("amount", "1")
	q.Set("difficulty", c.difficulty)
	q.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api.php?"+q.Encode(), nil)
	if err != nil {
		return domain.TriviaQuestion{}, fmt.Errorf("opentdb: new request: %w", err)
	}

	status, body, err := httpx.Do(c.httpClient, req)
	if err != nil {
		return domain.TriviaQuestion{}, fmt.Errorf("opentdb: question: %w", err)
	}
	if !httpx.IsSuccess(status) {
		return domain.TriviaQuestion{}, fmt.Errorf("opentdb: question: %w", httpx.StatusError(status, body))
	}

	var payload apiResponse
	if err := httpx.Decode(body, &payload); err != nil {
		return domain.TriviaQuestion{}, fmt.Errorf("opentdb: question: %w", err)
	}
	if payload.ResponseCode != 0 {
		return domain.TriviaQuestion{}, fmt.Errorf("opentdb: question: %w: response_code %d", domain.ErrUpstream, payload.ResponseCode)
	}
	if len(payload.Results) == 0 {
		return domain.TriviaQuestion{}, fmt.Errorf("opentdb: question: %w: empty results", domain.ErrMalformedResponse)
	}

	r := payload.Results[0]
	return domain.TriviaQuestion{
		Question:  r.Question,
		Answer:    r.CorrectAnswer,
		Incorrect: append([]string(nil), r.IncorrectAnswers...),
	}, nil
}

var _ domain.TriviaSource = (*Client)(nil)
