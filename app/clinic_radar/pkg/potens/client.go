package potens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/llm"
)

const defaultURL = "https://ai.potens.ai/api/chat"

// ErrNoMessage 响应中没有 message 字段
var ErrNoMessage = errors.New("potens response has no 'message' key")

// Client Potens.ai 对话接口客户端
type Client struct {
	url    string
	apiKey string
	client *http.Client
}

// NewClient 创建一个新的 Potens 客户端
func NewClient(url, apiKey string, timeout int) *Client {
	if url == "" {
		url = defaultURL
	}
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: t},
	}
}

// Ensure Client implements llm.Chatter
var _ llm.Chatter = (*Client)(nil)

// ChatRequest Potens 请求体，系统提示与用户提示合并为一个 prompt
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse Potens 响应体
type ChatResponse struct {
	Message *string `json:"message"`
}

// Chat implements llm.Chatter
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(ChatRequest{Prompt: system + "\n\n" + user})
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("potens api error (status %d): %s", res.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response failed: %w", err)
	}
	if chatResp.Message == nil {
		return "", ErrNoMessage
	}

	return *chatResp.Message, nil
}
