package search

import (
	"context"
	"strings"
)

// BlogHost 只保留该站点的博客链接
const BlogHost = "blog.naver.com"

// LinkSearcher 定义通用的博客链接搜索接口
type LinkSearcher interface {
	SearchLinks(ctx context.Context, keyword string, max int) ([]string, error)
}

// Query 拼接关键词与后缀
func Query(keyword, suffix string) string {
	if suffix == "" {
		return keyword
	}
	return keyword + " " + suffix
}

// BlogLinks 按原顺序过滤出博客链接，去重后最多保留 max 个
func BlogLinks(urls []string, max int) []string {
	links := make([]string, 0, max)
	seen := make(map[string]bool)
	for _, u := range urls {
		if len(links) >= max {
			break
		}
		if strings.Contains(u, BlogHost) && !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	}
	return links
}
