package factory

import (
	"fmt"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/naver"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/search"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/searxng"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/tavily"
)

// NewLinkSearcher 根据配置创建博客链接搜索实例，默认直接解析搜索结果页
func NewLinkSearcher(cfg config.NaverConfig, html *naver.Client) (search.LinkSearcher, error) {
	switch cfg.Provider {
	case "", "naver":
		return html, nil

	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNG.BaseURL, cfg.QuerySuffix, cfg.SearXNG.Timeout), nil

	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey, cfg.QuerySuffix), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}
}
