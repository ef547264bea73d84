// Package trend 保存社区文章采集记录，并按关键词生成趋势看板。
package trend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout 记录中日期的标准格式
const DateLayout = time.DateOnly

// CSV 列名
const (
	ColKeyword         = "키워드"
	ColTotal           = "총_크롤링_개수"
	ColDate            = "날짜"
	ColTitle           = "제목"
	ColLink            = "링크"
	ColBody            = "본문"
	ColSearchTerms     = "연관검색어"
	ColRelatedKeywords = "연관키워드"
)

// Header 写出 CSV 时的列顺序
var Header = []string{
	ColKeyword, ColTotal, ColDate, ColTitle, ColLink, ColBody, ColSearchTerms, ColRelatedKeywords,
}

// ErrMissingColumn CSV 缺少必需的列
var ErrMissingColumn = errors.New("missing column")

// Record 一条采集到的文章
type Record struct {
	Keyword         string
	Total           int // 该关键词本次采集的总条数
	Date            string
	Title           string
	Link            string
	Body            string
	SearchTerms     string // 页面给出的相关搜索词，逗号分隔
	RelatedKeywords string // 从标题和正文统计出的高频词，逗号分隔
}

func (r Record) row() []string {
	return []string{
		r.Keyword, strconv.Itoa(r.Total), r.Date, r.Title, r.Link, r.Body, r.SearchTerms, r.RelatedKeywords,
	}
}

// WriteCSV 按 Header 的顺序写出记录
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV 读取记录，列可以是任意顺序
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}

	idx := make(map[string]int, len(head))
	for i, name := range head {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{ColKeyword, ColDate} {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return fields[i]
		}

		rec := Record{
			Keyword:         get(ColKeyword),
			Date:            get(ColDate),
			Title:           get(ColTitle),
			Link:            get(ColLink),
			Body:            get(ColBody),
			SearchTerms:     get(ColSearchTerms),
			RelatedKeywords: get(ColRelatedKeywords),
		}
		if raw := strings.TrimSpace(get(ColTotal)); raw != "" {
			if rec.Total, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", line, ColTotal, raw)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadFile 从文件读取记录
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// SaveFile 把记录写入文件，已有内容会被覆盖
func SaveFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CleanDate 空日期或相对时间（"3시간 전"、"1일 전" 等）替换为采集日期
func CleanDate(raw string, crawlDate time.Time) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return crawlDate.Format(DateLayout)
	}
	for _, marker := range []string{"전", "시간", "분", "일"} {
		if strings.Contains(s, marker) {
			return crawlDate.Format(DateLayout)
		}
	}
	return s
}

// StandardizeDate 把 "2025.03.01." 形式转换为 "2025-03-01"
func StandardizeDate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	return strings.ReplaceAll(s, ".", "-")
}

// ParseDate 解析记录日期，只保留日期部分
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.DateTime, "2006-1-2"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return day(t), true
		}
	}
	return time.Time{}, false
}

// RelatedKeywords 统计标题和正文中出现最多的 n 个词（长度大于 1），次数相同按首次出现顺序
func RelatedKeywords(title, body string, n int) string {
	var tokens []string
	for _, w := range strings.Fields(title + " " + body) {
		if utf8.RuneCountInString(w) > 1 {
			tokens = append(tokens, w)
		}
	}
	return strings.Join(topN(tokens, n), ", ")
}

// topN 按出现次数取前 n 个，次数相同按首次出现顺序
func topN(tokens []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, t := range tokens {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
