package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/tvhoang/august-revolution/internal/domain"
)

// ProxyClient is the proxied transport: it posts the query and context to a
// same-origin relay that holds the credential server-side and performs the
// prompt construction itself. Like the direct client it never retries.
type ProxyClient struct {
	relayURL string
	http     *http.Client
}

// NewProxyClient creates a proxied transport client for the given relay URL.
func NewProxyClient(relayURL string) *ProxyClient {
	return &ProxyClient{
		relayURL: relayURL,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// RelayRequest is the wire payload the relay accepts.
type RelayRequest struct {
	Query      string                  `json:"query"`
	Context    []domain.KnowledgeEntry `json:"context"`
	Model      string                  `json:"model"`
	APIVersion string                  `json:"apiVersion"`
}

// Generate posts the request to the relay and returns its generated text.
func (c *ProxyClient) Generate(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(RelayRequest{
		Query:      req.Query,
		Context:    TruncateContext(req.Context),
		Model:      req.Model,
		APIVersion: req.APIVersion,
	})
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("marshal relay request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(payload))
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("create relay request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &GenerationError{Message: fmt.Sprintf("call relay: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Status: resp.StatusCode, Message: fmt.Sprintf("read relay response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GenerationError{Status: resp.StatusCode, Message: upstreamMessage(raw, resp.Status)}
	}

	text := strings.TrimSpace(gjson.GetBytes(raw, "text").String())
	if text == "" {
		return "", &GenerationError{Status: resp.StatusCode, Message: "empty response"}
	}
	return text, nil
}
