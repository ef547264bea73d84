package chatmodel

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/llm"
)

// Client 基于 eino 的 OpenAI 兼容对话客户端
type Client struct {
	cm model.BaseChatModel
}

// NewClient 初始化 OpenAI 兼容的对话模型
func NewClient(ctx context.Context, baseURL, apiKey, modelName string, timeout int) (*Client, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
		Timeout: time.Duration(timeout) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &Client{cm: cm}, nil
}

// NewWithModel 使用已有的对话模型
func NewWithModel(cm model.BaseChatModel) *Client {
	return &Client{cm: cm}
}

// Ensure Client implements llm.Chatter
var _ llm.Chatter = (*Client)(nil)

// Chat implements llm.Chatter
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}

	resp, err := c.cm.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
