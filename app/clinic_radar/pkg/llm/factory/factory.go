package factory

import (
	"context"
	"fmt"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/chatmodel"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/llm"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/potens"
)

// NewChatter 根据配置创建对话实例
func NewChatter(ctx context.Context, cfg config.LLMConfig) (llm.Chatter, error) {
	provider := cfg.Provider
	if provider == "" {
		// 默认回退逻辑：配置了模型名则使用 OpenAI 兼容接口
		if cfg.Model != "" {
			provider = "openai"
		} else {
			return nil, fmt.Errorf("llm provider not configured")
		}
	}

	switch provider {
	case "potens":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("potens api key is missing")
		}
		return potens.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil

	case "openai":
		if cfg.Model == "" {
			return nil, fmt.Errorf("openai model is missing")
		}
		return chatmodel.NewClient(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)

	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
