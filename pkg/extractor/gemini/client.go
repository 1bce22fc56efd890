package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client is a minimal Gemini generateContent client with a strict JSON
// response schema. Only what the extractor needs is implemented.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	schema  json.RawMessage
	httpDo  *http.Client
}

func New(apiKey, baseURL, model string, schema []byte) *Client {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		schema:  schema,
		httpDo: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType   string          `json:"responseMimeType"`
	ResponseJSONSchema json.RawMessage `json:"responseJsonSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// FromDocument submits an inline document (base64) plus an instruction prompt.
func (c *Client) FromDocument(ctx context.Context, data, mimeType string, prompt string) ([]byte, error) {
	parts := []part{
		{InlineData: &inlineData{MimeType: mimeType, Data: data}},
		{Text: prompt},
	}
	return c.generate(ctx, parts)
}

// FromText submits a purely textual prompt.
func (c *Client) FromText(ctx context.Context, prompt string) ([]byte, error) {
	return c.generate(ctx, []part{{Text: prompt}})
}

func (c *Client) generate(ctx context.Context, parts []part) ([]byte, error) {
	if c.APIKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	reqBody := generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseMimeType:   "application/json",
			ResponseJSONSchema: c.schema,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)

	// One bounded retry on transient failure (transport error or 5xx).
	// Client-side errors and schema handling are the caller's problem.
	attempts := 2
	var lastErr error
	for i := 0; i < attempts; i++ {
		out, retryable, err := c.do(ctx, endpoint, body)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		if i < attempts-1 {
			select {
			case <-time.After(time.Duration(1<<i) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, body []byte) ([]byte, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return nil, resp.StatusCode >= 500, fmt.Errorf("gemini http %d: %v", resp.StatusCode, errMap)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, false, errors.New("no candidates returned by model")
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return nil, false, errors.New("empty model response")
	}
	return []byte(text), false, nil
}
