// Package controller 驱动分析页面：读取表单、校验输入、调用后端 JSON 接口，
// 并把结果渲染为 HTML 片段写入唯一的结果区域。
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
)

// 后端接口路径
const (
	AnalyzePath   = "/api/analyze"
	DiagnosisPath = "/api/diagnosis"
)

// 抓取数量范围
const (
	MinNumLinks = 1
	MaxNumLinks = 20
)

var (
	ErrEmptyKeyword    = errors.New("keyword is empty")
	ErrInvalidNumLinks = fmt.Errorf("num_links must be an integer in [%d, %d]", MinNumLinks, MaxNumLinks)
	// ErrStale 响应到达时已有更新的请求发出，结果被丢弃
	ErrStale = errors.New("response superseded by a newer request")
)

// AnalyzeRequest /api/analyze 请求体
type AnalyzeRequest struct {
	Keyword  string `json:"keyword"`
	NumLinks int    `json:"num_links"`
}

// DiagnosisRequest /api/diagnosis 请求体
type DiagnosisRequest struct {
	Keyword string `json:"keyword"`
}

// Controller 分析请求控制器
type Controller struct {
	baseURL string
	client  *http.Client
	form    Form
	region  Region

	mu     sync.Mutex
	latest uint64
}

// Option 控制器选项
type Option func(*Controller)

// WithHTTPClient 替换默认的 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(ctl *Controller) {
		ctl.client = c
	}
}

// New 创建控制器，baseURL 为后端地址（不含路径）
func New(baseURL string, form Form, region Region, opts ...Option) *Controller {
	c := &Controller{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		form:    form,
		region:  region,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseNumLinks 解析抓取数量，必须是 [1, 20] 内的整数
func ParseNumLinks(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumLinks, raw)
	}
	if n < MinNumLinks || n > MaxNumLinks {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNumLinks, n)
	}
	return n, nil
}

// Analyze 校验关键词与抓取数量后请求分析接口
func (c *Controller) Analyze(ctx context.Context) error {
	token := c.issue()
	c.render(token, LoadingMessage)

	keyword := c.form.Value(FieldKeyword)
	if strings.TrimSpace(keyword) == "" {
		c.render(token, KeywordPrompt)
		return ErrEmptyKeyword
	}

	numLinks, err := ParseNumLinks(c.form.Value(FieldNumLinks))
	if err != nil {
		c.render(token, NumLinksPrompt)
		return err
	}

	body, err := c.post(ctx, AnalyzePath, AnalyzeRequest{Keyword: keyword, NumLinks: numLinks})
	var outcome Outcome
	if err != nil {
		outcome = Failure{Err: err}
	} else {
		outcome = DecodeAnalysis(body)
	}
	return c.apply(token, outcome)
}

// Diagnosis 请求诊断代码接口。这里不校验关键词是否为空，空关键词由后端拒绝。
func (c *Controller) Diagnosis(ctx context.Context) error {
	token := c.issue()
	c.render(token, LoadingMessage)

	keyword := c.form.Value(FieldKeyword)

	body, err := c.post(ctx, DiagnosisPath, DiagnosisRequest{Keyword: keyword})
	var outcome Outcome
	if err != nil {
		outcome = Failure{Err: err}
	} else {
		outcome = DecodeDiagnosis(body)
	}
	return c.apply(token, outcome)
}

// issue 发放新的请求序号
func (c *Controller) issue() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

// render 仅当 token 仍是最新请求时写入结果区域
func (c *Controller) render(token uint64, content template.HTML) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.latest {
		return false
	}
	c.region.SetHTML(content)
	return true
}

func (c *Controller) apply(token uint64, outcome Outcome) error {
	if !c.render(token, outcome.Render()) {
		logger.Log.Debugf("丢弃过期响应 [token=%d]", token)
		return ErrStale
	}
	if f, ok := outcome.(Failure); ok {
		logger.Log.Warnf("请求失败: %v", f.Err)
		return f
	}
	return nil
}

func (c *Controller) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	return body, nil
}
