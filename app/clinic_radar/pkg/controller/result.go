package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
)

// ErrMissingField 响应中没有期望的字段
var ErrMissingField = errors.New("expected field missing in response")

// Item 分析结果条目
type Item struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Analysis string `json:"analysis"`
}

// Outcome 一次请求在边界处解析后的结果
type Outcome interface {
	Render() template.HTML
}

// Items 带条目列表的成功结果
type Items struct {
	Items []Item
}

// Text 带文本的成功结果
type Text struct {
	Text string
}

// Failure 任何失败：网络、非 JSON、缺少字段
type Failure struct {
	Err error
}

// Render 按响应顺序渲染所有条目
func (o Items) Render() template.HTML {
	return renderItems(o.Items)
}

// Render 渲染为单个 pre 块
func (o Text) Render() template.HTML {
	return renderText(o.Text)
}

// Render 固定的错误提示
func (o Failure) Render() template.HTML {
	return ErrorMessage
}

func (o Failure) Error() string {
	return o.Err.Error()
}

func (o Failure) Unwrap() error {
	return o.Err
}

// DecodeAnalysis 解析 /api/analyze 的响应体
func DecodeAnalysis(body []byte) Outcome {
	var resp struct {
		Results *[]Item `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Failure{Err: fmt.Errorf("decode analysis response: %w", err)}
	}
	if resp.Results == nil {
		return Failure{Err: fmt.Errorf("results: %w", ErrMissingField)}
	}
	return Items{Items: *resp.Results}
}

// DecodeDiagnosis 解析 /api/diagnosis 的响应体，空字符串视为缺失
func DecodeDiagnosis(body []byte) Outcome {
	var resp struct {
		Result *string `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Failure{Err: fmt.Errorf("decode diagnosis response: %w", err)}
	}
	if resp.Result == nil || *resp.Result == "" {
		return Failure{Err: fmt.Errorf("result: %w", ErrMissingField)}
	}
	return Text{Text: *resp.Result}
}
