package trend

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	recentDays    = 10
	rollingWindow = 3
	dropThreshold = 0.3
	topRelated    = 3
)

// Columns 看板列名
var Columns = []string{
	"키워드",
	"총 크롤링 건수",
	"최근 10일 건수(비중)",
	"오늘 건수",
	"급락 감지",
	"이상감지 상태",
	"상위 연관검색어",
	"상위 연관키워드",
}

// Row 单个关键词的看板行
type Row struct {
	Keyword         string
	Total           int
	Recent          string
	Today           string
	Drop            string
	Level           string
	SearchTerms     string
	RelatedKeywords string
}

// Cells 按 Columns 顺序返回单元格文本
func (r Row) Cells() []string {
	return []string{
		r.Keyword,
		fmt.Sprint(r.Total),
		r.Recent,
		r.Today,
		r.Drop,
		r.Level,
		r.SearchTerms,
		r.RelatedKeywords,
	}
}

type dated struct {
	Record
	day time.Time
}

// Summarize 按关键词汇总记录，关键词按字典序排列；日期无法解析的记录被忽略
func Summarize(records []Record, today time.Time) []Row {
	groups := make(map[string][]dated)
	for _, r := range records {
		d, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		groups[r.Keyword] = append(groups[r.Keyword], dated{Record: r, day: d})
	}

	keywords := make([]string, 0, len(groups))
	for k := range groups {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	rows := make([]Row, 0, len(keywords))
	for _, k := range keywords {
		rows = append(rows, summarize(k, groups[k], day(today)))
	}
	return rows
}

func summarize(keyword string, group []dated, today time.Time) Row {
	total := len(group)
	cutoff := today.AddDate(0, 0, -(recentDays - 1))
	yesterday := today.AddDate(0, 0, -1)

	days := make([]time.Time, 0, total)
	var recentCount, todayCount, yesterdayCount int
	var terms, related []string
	for _, r := range group {
		days = append(days, r.day)
		if !r.day.Before(cutoff) {
			recentCount++
		}
		switch {
		case r.day.Equal(today):
			todayCount++
		case r.day.Equal(yesterday):
			yesterdayCount++
		}
		terms = append(terms, splitList(r.SearchTerms)...)
		related = append(related, splitList(r.RelatedKeywords)...)
	}

	det := DetectAnomalies(days, today, recentDays, rollingWindow)
	_, drop := DetectDrop(det.Recent, today, dropThreshold)

	row := Row{
		Keyword:         keyword,
		Total:           total,
		Recent:          fmt.Sprintf("%d (%.1f%%)", recentCount, float64(recentCount)/float64(total)*100),
		Today:           todayCell(todayCount, yesterdayCount),
		Drop:            "없음",
		Level:           Level(todayCount, det.Threshold, det.Attention),
		SearchTerms:     strings.Join(topN(terms, topRelated), ", "),
		RelatedKeywords: strings.Join(topN(related, topRelated), ", "),
	}
	if drop {
		row.Drop = "급락!"
	}
	return row
}

func todayCell(today, yesterday int) string {
	diff := today - yesterday
	if yesterday == 0 {
		return fmt.Sprintf("%d (어제 %d 대비 %+d / 계산 불가)", today, yesterday, diff)
	}
	change := float64(diff) / float64(yesterday) * 100
	return fmt.Sprintf("%d (어제 %d 대비 %+d / %+.1f%%)", today, yesterday, diff, change)
}

func splitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Table 把看板行转换为二维文本
func Table(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return out
}
