package naver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/model"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/search"
)

const (
	mobileBlogHost = "m.blog.naver.com"
	// UntitledPost 无法提取 og:title 时使用的标题
	UntitledPost = "제목 추출 실패"

	maxPageBytes = 5 << 20
)

// ErrEmptyContent 博客正文为空
var ErrEmptyContent = errors.New("blog post has no content")

// Client 博客搜索与正文抓取客户端
type Client struct {
	searchURL   string
	querySuffix string
	userAgent   string
	client      *http.Client
}

// NewClient 创建一个新的博客客户端
func NewClient(cfg config.NaverConfig) *Client {
	t := time.Duration(cfg.Timeout) * time.Second
	if t == 0 {
		t = 5 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0"
	}
	return &Client{
		searchURL:   cfg.SearchURL,
		querySuffix: cfg.QuerySuffix,
		userAgent:   ua,
		client:      &http.Client{Timeout: t},
	}
}

// SearchLinks 搜索关键词相关的博客，按页面顺序返回去重后的链接
func (c *Client) SearchLinks(ctx context.Context, keyword string, max int) ([]string, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search URL: %w", err)
	}

	query := search.Query(keyword, c.querySuffix)
	q := u.Query()
	q.Set("where", "view")
	q.Set("query", query)
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	links := make([]string, 0, max)
	seen := make(map[string]bool)
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, search.BlogHost) && !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
		return len(links) < max
	})

	logger.Log.Debugf("搜索 [%s] 得到 %d 个博客链接", query, len(links))
	return links, nil
}

// FetchPost 抓取博客正文，链接会被改写为移动版页面
func (c *Client) FetchPost(ctx context.Context, link string) (*model.BlogPost, error) {
	pageURL := MobileURL(link)

	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	title := extractTitle(body)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse blog page: %w", err)
	}

	var content string
	container := doc.Find("div.se-main-container").First()
	if container.Length() > 0 {
		content = nodeText(container.Nodes)
	} else {
		// 旧版编辑器没有 se-main-container，退回到 readability 提取
		content = readableText(body, pageURL)
	}

	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%s: %w", link, ErrEmptyContent)
	}

	return &model.BlogPost{
		Title:   title,
		Link:    link,
		Content: content,
	}, nil
}

// MobileURL 把桌面版博客地址改写为移动版
func MobileURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host != search.BlogHost {
		return link
	}
	u.Host = mobileBlogHost
	return u.String()
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", res.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	return body, nil
}

func extractTitle(body []byte) string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err != nil || og.Title == "" {
		return UntitledPost
	}
	return og.Title
}

func readableText(body []byte, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		logger.Log.Debugf("readability 提取失败 [%s]: %v", pageURL, err)
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// nodeText 收集所有文本节点，去掉首尾空白后按行拼接
func nodeText(nodes []*html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
