package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/search"
)

const (
	baseURL = "https://api.tavily.com/search"
	// Tavily 单次最多返回 20 条
	maxResults = 20
)

// Client Tavily API 客户端
type Client struct {
	apiKey   string
	suffix   string
	endpoint string
	client   *http.Client
}

// NewClient 创建一个新的 Tavily 客户端
func NewClient(apiKey, suffix string) *Client {
	return &Client{
		apiKey:   apiKey,
		suffix:   suffix,
		endpoint: baseURL,
		client:   http.DefaultClient,
	}
}

// Ensure Client implements search.LinkSearcher
var _ search.LinkSearcher = (*Client)(nil)

// SearchRequest Tavily 搜索请求参数
type SearchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"` // basic or advanced
	Topic          string   `json:"topic,omitempty"`        // general or news
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
}

// SearchResponse Tavily 搜索响应
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchResult 单个搜索结果
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchLinks 只在博客域名内搜索
func (c *Client) SearchLinks(ctx context.Context, keyword string, max int) ([]string, error) {
	resp, err := c.doSearch(ctx, SearchRequest{
		Query:          search.Query(keyword, c.suffix),
		SearchDepth:    "basic",
		Topic:          "general",
		MaxResults:     min(max, maxResults),
		IncludeDomains: []string{search.BlogHost},
	})
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		urls = append(urls, r.URL)
	}
	return search.BlogLinks(urls, max), nil
}

// doSearch 执行搜索 (Internal)
func (c *Client) doSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	return &searchResp, nil
}
