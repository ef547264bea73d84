package domain

import "time"

// Finding 单篇博客的分析结果
type Finding struct {
	Title    string
	Link     string
	Analysis string
}

// AnalysisRun 一次分析请求
type AnalysisRun struct {
	ID        string
	Keyword   string
	NumLinks  int
	Findings  []*Finding
	CreatedAt time.Time
}

// Diagnosis 诊断代码查询结果
type Diagnosis struct {
	Keyword   string
	Result    string
	CreatedAt time.Time
}

// TrendBoard 趋势看板
type TrendBoard struct {
	Date    string
	Columns []string
	Rows    [][]string
}
