// Package gemini реализует клиент генеративного API Gemini:
// генерацию изображений по текстовому описанию и синтез речи.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const (
	imageModel  = "gemini-2.5-flash-image"
	speechModel = "gemini-2.5-flash-preview-tts"
)

// Client клиент HTTP API Gemini.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Gemini.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) generate(ctx context.Context, model, prompt string) (*GeneratedMedia, error) {
	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	req, err := c.newRequest(ctx, "POST", "/models/"+model+":generateContent", reqBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var genResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, err
	}
	for _, cand := range genResp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil {
				return &GeneratedMedia{
					MimeType: p.InlineData.MimeType,
					Data:     p.InlineData.Data,
				}, nil
			}
		}
	}
	return nil, errors.New("no media in response")
}

// GenerateImage создаёт изображение по текстовому описанию и возвращает
// его в base64 вместе с mime-типом.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*GeneratedMedia, error) {
	return c.generate(ctx, imageModel, prompt)
}

// Synthesize озвучивает текст и возвращает аудио в base64 вместе с mime-типом.
func (c *Client) Synthesize(ctx context.Context, text string) (*GeneratedMedia, error) {
	return c.generate(ctx, speechModel, text)
}
