package controller

import (
	"html/template"
	"sync"
)

// 页面元素标识
const (
	FieldKeyword  = "keyword"
	FieldNumLinks = "numLinks"
	RegionResult  = "result"
)

// Form 读取输入框的当前值
type Form interface {
	Value(id string) string
}

// Region 结果展示区域，每次写入覆盖之前的内容
type Region interface {
	SetHTML(content template.HTML)
}

// Values 基于 map 的表单实现
type Values map[string]string

// Value 实现 Form
func (v Values) Value(id string) string {
	return v[id]
}

// MemoryRegion 保存在内存中的展示区域
type MemoryRegion struct {
	mu      sync.RWMutex
	content template.HTML
	writes  int
}

// SetHTML 实现 Region
func (r *MemoryRegion) SetHTML(content template.HTML) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
	r.writes++
}

// HTML 返回当前内容
func (r *MemoryRegion) HTML() template.HTML {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Writes 返回累计写入次数
func (r *MemoryRegion) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}
