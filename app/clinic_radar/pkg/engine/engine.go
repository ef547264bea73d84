package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/llm"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/llm/factory"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/model"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/naver"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/search"
	searchfactory "github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/search/factory"
)

// BlogSource 博客来源
type BlogSource interface {
	SearchLinks(ctx context.Context, keyword string, max int) ([]string, error)
	FetchPost(ctx context.Context, link string) (*model.BlogPost, error)
}

var _ BlogSource = (*naver.Client)(nil)

// blogSource 组合任意链接搜索与博客正文抓取
type blogSource struct {
	links   search.LinkSearcher
	fetcher *naver.Client
}

func (s blogSource) SearchLinks(ctx context.Context, keyword string, max int) ([]string, error) {
	return s.links.SearchLinks(ctx, keyword, max)
}

func (s blogSource) FetchPost(ctx context.Context, link string) (*model.BlogPost, error) {
	return s.fetcher.FetchPost(ctx, link)
}

// Options 引擎运行参数
type Options struct {
	Candidates int           // 每次搜索的候选链接数
	Crawlers   int           // 每批并发抓取数
	MaxRetries int           // 限流时的最大重试次数
	BaseDelay  time.Duration // 重试退避基数
	Limiter    *rate.Limiter
}

// Engine 核心处理引擎
type Engine struct {
	source  BlogSource
	chatter llm.Chatter
	opts    Options
}

// NewEngine 根据配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	chatter, err := factory.NewChatter(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	client := naver.NewClient(cfg.Naver)
	links, err := searchfactory.NewLinkSearcher(cfg.Naver, client)
	if err != nil {
		return nil, fmt.Errorf("搜索初始化失败: %w", err)
	}

	limit := rate.Inf
	if cfg.Concurrency.RPM > 0 {
		limit = rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	}
	burst := max(cfg.Concurrency.QPS, 1)

	return New(blogSource{links: links, fetcher: client}, chatter, Options{
		Candidates: cfg.Naver.Candidates,
		Crawlers:   cfg.Concurrency.Crawlers,
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		Limiter:    rate.NewLimiter(limit, burst),
	}), nil
}

// New 使用给定的来源和对话模型创建引擎
func New(source BlogSource, chatter llm.Chatter, opts Options) *Engine {
	if opts.Candidates <= 0 {
		opts.Candidates = 30
	}
	if opts.Crawlers <= 0 {
		opts.Crawlers = 5
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Engine{source: source, chatter: chatter, opts: opts}
}

// Inspect 搜索关键词相关的博客并逐篇分析，结果保持搜索顺序
func (e *Engine) Inspect(ctx context.Context, keyword string, numLinks int) ([]model.Finding, error) {
	links, err := e.source.SearchLinks(ctx, keyword, e.opts.Candidates)
	if err != nil {
		return nil, fmt.Errorf("搜索博客失败: %w", err)
	}
	logger.Log.Infof("关键词 [%s] 找到 %d 个候选链接，目标 %d 篇", keyword, len(links), numLinks)

	posts, err := e.crawl(ctx, links, numLinks)
	if err != nil {
		return nil, err
	}

	findings := make([]model.Finding, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	for i, post := range posts {
		g.Go(func() error {
			findings[i] = model.Finding{
				Title:    post.Title,
				Link:     post.Link,
				Analysis: e.ask(gctx, adSystemPrompt, fmt.Sprintf(adUserPrompt, post.Content)),
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return findings, nil
}

// Diagnose 查询症状对应的诊断代码
func (e *Engine) Diagnose(ctx context.Context, keyword string) (string, error) {
	text := e.ask(ctx, diagnosisSystemPrompt, fmt.Sprintf(diagnosisUserPrompt, keyword))
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}

// crawl 分批抓取正文，直到凑够 numLinks 篇或候选用尽
func (e *Engine) crawl(ctx context.Context, links []string, numLinks int) ([]*model.BlogPost, error) {
	posts := make([]*model.BlogPost, 0, numLinks)

	for start := 0; start < len(links) && len(posts) < numLinks; {
		size := min(e.opts.Crawlers, numLinks-len(posts), len(links)-start)
		batch := links[start : start+size]
		start += size

		fetched := make([]*model.BlogPost, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, link := range batch {
			g.Go(func() error {
				post, err := e.source.FetchPost(gctx, link)
				if err != nil {
					if errors.Is(err, naver.ErrEmptyContent) {
						logger.Log.Debugf("跳过无正文的博客 [%s]", link)
					} else {
						logger.Log.Warnf("抓取博客失败 [%s]: %v", link, err)
					}
					return nil
				}
				fetched[i] = post
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, post := range fetched {
			if post != nil && len(posts) < numLinks {
				posts = append(posts, post)
			}
		}
	}
	return posts, nil
}

// ask 调用模型，失败时返回失败说明文本而不是错误
func (e *Engine) ask(ctx context.Context, system, user string) string {
	text, err := e.chat(ctx, system, user)
	if err != nil {
		logger.Log.Errorf("LLM 调用失败: %v", err)
		return fmt.Sprintf(chatFailure, err)
	}
	return text
}

func (e *Engine) chat(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for i := 0; i <= e.opts.MaxRetries; i++ {
		if err := e.opts.Limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := e.chatter.Chat(ctx, system, user)
		if err == nil {
			return resp, nil
		}
		if !llm.IsRateLimited(err) {
			return "", err
		}

		lastErr = err
		if i < e.opts.MaxRetries {
			delay := e.opts.BaseDelay * time.Duration(1<<i)
			logger.Log.Warnf("LLM 限流，%s 后重试 (%d/%d)", delay, i+1, e.opts.MaxRetries)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", lastErr
}
