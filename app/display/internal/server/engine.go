package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/engine"
	crLogger "github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
	"github.com/iWorld-y/clinic_radar/app/display/internal/conf"
	"github.com/iWorld-y/clinic_radar/app/display/internal/usecase"
)

// NewInspector 初始化博客分析引擎
func NewInspector(c *conf.Radar, logger log.Logger) (usecase.Inspector, func(), error) {
	cfg := radarConfig(c)

	// 初始化日志
	if err := crLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine logger: %v", err)
		_ = crLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up clinic_radar engine")
	}
	return eng, cleanup, nil
}

// radarConfig 将 internal/conf.Radar 转换为 pkg/config.Config，未填写的字段保留默认值
func radarConfig(c *conf.Radar) *config.Config {
	cfg := config.Default()
	if c == nil {
		return cfg
	}

	if l := c.Llm; l != nil {
		setString(&cfg.LLM.Provider, l.Provider)
		setString(&cfg.LLM.BaseURL, l.BaseUrl)
		setString(&cfg.LLM.APIKey, l.ApiKey)
		setString(&cfg.LLM.Model, l.Model)
		setInt(&cfg.LLM.Timeout, l.Timeout)
	}
	if n := c.Naver; n != nil {
		setString(&cfg.Naver.SearchURL, n.SearchUrl)
		setString(&cfg.Naver.QuerySuffix, n.QuerySuffix)
		setString(&cfg.Naver.UserAgent, n.UserAgent)
		setInt(&cfg.Naver.Candidates, n.Candidates)
		setInt(&cfg.Naver.Timeout, n.Timeout)
		setString(&cfg.Naver.Provider, n.Provider)
		if sx := n.Searxng; sx != nil {
			setString(&cfg.Naver.SearXNG.BaseURL, sx.BaseUrl)
			setInt(&cfg.Naver.SearXNG.Timeout, sx.Timeout)
		}
		if tv := n.Tavily; tv != nil {
			setString(&cfg.Naver.Tavily.APIKey, tv.ApiKey)
		}
	}
	if l := c.Log; l != nil {
		setString(&cfg.Log.Level, l.Level)
		setString(&cfg.Log.File, l.File)
	}
	if cc := c.Concurrency; cc != nil {
		setInt(&cfg.Concurrency.QPS, cc.Qps)
		setInt(&cfg.Concurrency.RPM, cc.Rpm)
		setInt(&cfg.Concurrency.Crawlers, cc.Crawlers)
	}
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int32) {
	if v != 0 {
		*dst = int(v)
	}
}
