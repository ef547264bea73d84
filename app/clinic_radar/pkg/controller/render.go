package controller

import (
	"bytes"
	"html/template"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
)

// 展示区域中的固定提示
const (
	LoadingMessage template.HTML = "로딩 중..."
	ErrorMessage   template.HTML = "❌ 오류 발생"
	KeywordPrompt  template.HTML = "❗ 키워드를 입력해주세요."
	NumLinksPrompt template.HTML = "❗ 크롤링 개수를 1~20 사이 숫자로 입력해주세요."
)

var itemTpl = template.Must(template.New("item").Parse(`
<h4>{{.Title}}</h4>
<a href="{{.Link}}" target="_blank">{{.Link}}</a>
<pre>{{.Analysis}}</pre>
<hr/>
`))

var textTpl = template.Must(template.New("text").Parse(`<pre>{{.}}</pre>`))

func renderItems(items []Item) template.HTML {
	var buf bytes.Buffer
	for _, item := range items {
		if err := itemTpl.Execute(&buf, item); err != nil {
			logger.Log.Errorf("渲染分析条目失败 [%s]: %v", item.Link, err)
			return ErrorMessage
		}
	}
	return template.HTML(buf.String())
}

func renderText(text string) template.HTML {
	var buf bytes.Buffer
	if err := textTpl.Execute(&buf, text); err != nil {
		logger.Log.Errorf("渲染诊断结果失败: %v", err)
		return ErrorMessage
	}
	return template.HTML(buf.String())
}
