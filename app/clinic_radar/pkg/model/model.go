package model

// BlogPost 抓取到的博客正文
type BlogPost struct {
	Title   string
	Link    string // 搜索结果中的原始链接
	Content string // 仅用于 LLM 分析，不直接展示
}

// Finding 单篇博客的医疗广告分析结果
type Finding struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Analysis string `json:"analysis"`
}
