package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tvhoang/august-revolution/internal/domain"
)

// DefaultBaseURL is the Google generative language API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Request describes one generation call. Constructed fresh per call and
// never mutated after construction.
type Request struct {
	Query      string
	Context    []domain.KnowledgeEntry
	Model      string
	APIVersion string
}

// Client is the direct transport: it calls the generation endpoint with a
// caller-held credential. It performs no retries of its own.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a direct transport client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type generateContentBody struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Generate performs one generation call and returns the model's text.
// Any non-2xx response, network failure, or empty extraction yields a
// *GenerationError carrying the upstream status.
func (c *Client) Generate(ctx context.Context, req Request, credential string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		c.baseURL, req.APIVersion, url.PathEscape(req.Model), url.QueryEscape(credential))

	body := generateContentBody{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: BuildPrompt(req.Query, req.Context)}},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("marshal request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("call gemini: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GenerationError{Status: resp.StatusCode, Message: upstreamMessage(raw, resp.Status)}
	}

	text := strings.TrimSpace(gjson.GetBytes(raw, "candidates.0.content.parts.0.text").String())
	if text == "" {
		// A 2xx with no usable text is a failure, not a successful empty answer.
		return "", &GenerationError{Status: resp.StatusCode, Message: "empty response"}
	}
	return text, nil
}

// upstreamMessage pulls error.message from an error body, falling back to
// the HTTP status line.
func upstreamMessage(raw []byte, statusLine string) string {
	if msg := gjson.GetBytes(raw, "error.message").String(); msg != "" {
		return msg
	}
	if msg := gjson.GetBytes(raw, "message").String(); msg != "" {
		return msg
	}
	return statusLine
}
