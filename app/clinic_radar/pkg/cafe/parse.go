package cafe

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Article 搜索结果中的一篇文章
type Article struct {
	Date        string
	Title       string
	Link        string
	Snippet     string
	SearchTerms string
}

// ParsePage 解析一页文章搜索结果。页面侧栏的相关搜索词会附加到每篇文章上。
func ParsePage(html string) ([]Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var terms []string
	doc.Find(".aside_search_tag button").Each(func(_ int, s *goquery.Selection) {
		terms = append(terms, strings.TrimSpace(s.Text()))
	})
	searchTerms := strings.Join(terms, ", ")

	var articles []Article
	doc.Find(".ArticleItem").Each(func(_ int, item *goquery.Selection) {
		a := Article{SearchTerms: searchTerms}
		if link := item.Find("a").First(); link.Length() > 0 {
			a.Link, _ = link.Attr("href")
			a.Title = strings.TrimSpace(link.Find("strong.title").First().Text())
			a.Snippet = strings.TrimSpace(link.Find("p.text").First().Text())
		}
		a.Date = strings.TrimSpace(item.Find("span.date").First().Text())
		articles = append(articles, a)
	})
	return articles, nil
}
