// Package kb talks to the managed knowledge-base retrieval service.
package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL         string
	knowledgeBaseID string
	client          *http.Client
}

func NewClient(baseURL, knowledgeBaseID string) *Client {
	return &Client{
		baseURL:         baseURL,
		knowledgeBaseID: knowledgeBaseID,
		client:          &http.Client{Timeout: 30 * time.Second},
	}
}

type request struct {
	KnowledgeBaseID string `json:"knowledgeBaseId"`
	Query           string `json:"query"`
	TopK            int    `json:"topK"`
}

type response struct {
	Results []struct {
		Text  string  `json:"text"`
		Score float64 `json:"score"`
	} `json:"results"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Retrieve runs a similarity search against the knowledge base and returns
// the passage texts, best match first.
func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	body, err := json.Marshal(request{
		KnowledgeBaseID: c.knowledgeBaseID,
		Query:           query,
		TopK:            topK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/retrieve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieve call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("retrieval error %d: %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("retrieval error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	texts := make([]string, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	return texts, nil
}
