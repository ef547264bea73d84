// Package cafe 通过无头浏览器采集社区文章搜索结果。
package cafe

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/trend"
)

const (
	// 分页按钮每 10 页一组
	pagesPerBlock = 10
	waitTimeout   = 10 * time.Second
	relatedTop    = 3
)

// Navigator 分页浏览搜索结果
type Navigator interface {
	Open(ctx context.Context, url string) error
	HTML() (string, error)
	NextBlock() error
	GotoPage(n int) error
	Close() error
}

// Crawler 文章搜索采集器
type Crawler struct {
	cfg    config.CafeConfig
	launch func(ctx context.Context) (Navigator, error)
	pause  time.Duration
}

// NewCrawler 创建使用 Chrome 的采集器
func NewCrawler(cfg config.CafeConfig) *Crawler {
	c := &Crawler{cfg: cfg, pause: time.Duration(cfg.Pause) * time.Millisecond}
	c.launch = func(ctx context.Context) (Navigator, error) {
		nav, err := launchChrome(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return nav, nil
	}
	return c
}

// Crawl 采集单个关键词的前 cfg.Pages 页，翻页失败的页会被跳过
func (c *Crawler) Crawl(ctx context.Context, keyword string) ([]Article, error) {
	nav, err := c.launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer nav.Close()

	u, err := url.Parse(c.cfg.SearchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search URL: %w", err)
	}
	q := u.Query()
	q.Set("q", keyword)
	u.RawQuery = q.Encode()

	if err := nav.Open(ctx, u.String()); err != nil {
		return nil, fmt.Errorf("open search page: %w", err)
	}
	if err := c.sleep(ctx); err != nil {
		return nil, err
	}

	var articles []Article
	collect := func(page int) error {
		html, err := nav.HTML()
		if err != nil {
			return err
		}
		found, err := ParsePage(html)
		if err != nil {
			return err
		}
		logger.Log.Debugf("[%s] 第 %d 页: %d 篇", keyword, page, len(found))
		articles = append(articles, found...)
		return nil
	}

	if err := collect(1); err != nil {
		logger.Log.Errorf("[%s] 第 1 页解析失败: %v", keyword, err)
	}

	block := 1
	for page := 2; page <= c.cfg.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return articles, err
		}

		target := (page-1)/pagesPerBlock + 1
		if err := c.turnTo(ctx, nav, &block, target, page); err != nil {
			logger.Log.Warnf("[%s] 第 %d 页跳转失败: %v", keyword, page, err)
			continue
		}
		if err := collect(page); err != nil {
			logger.Log.Warnf("[%s] 第 %d 页解析失败: %v", keyword, page, err)
		}
	}
	return articles, nil
}

func (c *Crawler) turnTo(ctx context.Context, nav Navigator, block *int, target, page int) error {
	for *block < target {
		if err := nav.NextBlock(); err != nil {
			return fmt.Errorf("next block: %w", err)
		}
		if err := c.sleep(ctx); err != nil {
			return err
		}
		*block++
	}
	if err := nav.GotoPage(page); err != nil {
		return err
	}
	return c.sleep(ctx)
}

// Collect 依次采集每个关键词并转换为趋势记录
func (c *Crawler) Collect(ctx context.Context, keywords []string, crawlDate time.Time) ([]trend.Record, error) {
	var records []trend.Record
	for _, kw := range keywords {
		logger.Log.Infof("开始采集 [%s]", kw)
		articles, err := c.Crawl(ctx, kw)
		if err != nil {
			if ctx.Err() != nil {
				return records, err
			}
			logger.Log.Errorf("采集失败 [%s]: %v", kw, err)
			continue
		}
		if len(articles) == 0 {
			logger.Log.Warnf("[%s] 没有结果", kw)
			continue
		}
		logger.Log.Infof("采集完成 [%s]: %d 篇", kw, len(articles))
		records = append(records, Records(kw, articles, crawlDate)...)
	}
	return records, nil
}

// Records 清洗日期并计算高频词
func Records(keyword string, articles []Article, crawlDate time.Time) []trend.Record {
	out := make([]trend.Record, 0, len(articles))
	for _, a := range articles {
		out = append(out, trend.Record{
			Keyword:         keyword,
			Total:           len(articles),
			Date:            trend.StandardizeDate(trend.CleanDate(a.Date, crawlDate)),
			Title:           a.Title,
			Link:            a.Link,
			Body:            a.Snippet,
			SearchTerms:     a.SearchTerms,
			RelatedKeywords: trend.RelatedKeywords(a.Title, a.Snippet, relatedTop),
		})
	}
	return out
}

func (c *Crawler) sleep(ctx context.Context) error {
	if c.pause <= 0 {
		return nil
	}
	select {
	case <-time.After(c.pause):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// chrome 基于 rod 的 Navigator
type chrome struct {
	l       *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page
}

var _ Navigator = (*chrome)(nil)

func launchChrome(ctx context.Context, cfg config.CafeConfig) (*chrome, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage")
	if cfg.Browser != "" {
		l = l.Bin(cfg.Browser)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return &chrome{l: l, browser: browser}, nil
}

func (c *chrome) Open(_ context.Context, url string) error {
	page, err := c.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return err
	}
	c.page = page
	return page.WaitLoad()
}

func (c *chrome) HTML() (string, error) {
	return c.page.HTML()
}

func (c *chrome) NextBlock() error {
	el, err := c.page.Timeout(waitTimeout).Element("button.type_next")
	if err != nil {
		return err
	}
	return jsClick(el)
}

func (c *chrome) GotoPage(n int) error {
	xpath := fmt.Sprintf("//button[@class='btn number' and normalize-space(text())='%d']", n)
	el, err := c.page.Timeout(waitTimeout).ElementX(xpath)
	if err != nil {
		return err
	}
	return jsClick(el)
}

func (c *chrome) Close() error {
	err := c.browser.Close()
	c.l.Cleanup()
	return err
}

// jsClick 通过脚本点击，避免按钮被浮层遮挡
func jsClick(el *rod.Element) error {
	_, err := el.Eval(`() => this.click()`)
	return err
}
