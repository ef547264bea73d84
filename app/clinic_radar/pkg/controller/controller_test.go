package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
)

func init() {
	logger.Discard()
}

// backend 记录收到的请求并返回固定响应
type backend struct {
	calls   atomic.Int32
	path    atomic.Value
	body    atomic.Value
	respond func(w http.ResponseWriter, r *http.Request)
}

func newBackend(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{respond: respond}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		b.path.Store(r.URL.Path)
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		b.body.Store(raw)
		b.respond(w, r)
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func jsonReply(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

const twoItems = `{"results":[{"title":"T1","link":"http://x","analysis":"A1"},{"title":"T2","link":"http://y","analysis":"A2"}]}`

func TestAnalyze_SendsOneRequest(t *testing.T) {
	for _, n := range []string{"1", "5", "20", " 7 "} {
		t.Run(n, func(t *testing.T) {
			b, srv := newBackend(t, jsonReply(`{"results":[]}`))
			region := &MemoryRegion{}
			ctl := New(srv.URL, Values{FieldKeyword: "도수치료", FieldNumLinks: n}, region)

			require.NoError(t, ctl.Analyze(context.Background()))

			assert.EqualValues(t, 1, b.calls.Load())
			assert.Equal(t, AnalyzePath, b.path.Load())
			want, _ := ParseNumLinks(n)
			assert.Equal(t, map[string]any{"keyword": "도수치료", "num_links": float64(want)}, b.body.Load())
		})
	}
}

func TestAnalyze_EmptyKeyword(t *testing.T) {
	for _, kw := range []string{"", "   ", "\t\n"} {
		b, srv := newBackend(t, jsonReply(twoItems))
		region := &MemoryRegion{}
		ctl := New(srv.URL, Values{FieldKeyword: kw, FieldNumLinks: "5"}, region)

		err := ctl.Analyze(context.Background())

		assert.ErrorIs(t, err, ErrEmptyKeyword)
		assert.Zero(t, b.calls.Load())
		assert.Equal(t, KeywordPrompt, region.HTML())
	}
}

func TestAnalyze_InvalidNumLinks(t *testing.T) {
	for _, n := range []string{"", "abc", "0", "-3", "21", "100", "2.5"} {
		t.Run(n, func(t *testing.T) {
			b, srv := newBackend(t, jsonReply(twoItems))
			region := &MemoryRegion{}
			ctl := New(srv.URL, Values{FieldKeyword: "도수치료", FieldNumLinks: n}, region)

			err := ctl.Analyze(context.Background())

			assert.ErrorIs(t, err, ErrInvalidNumLinks)
			assert.Zero(t, b.calls.Load())
			assert.Equal(t, NumLinksPrompt, region.HTML())
		})
	}
}

func TestAnalyze_RendersItemsInOrder(t *testing.T) {
	_, srv := newBackend(t, jsonReply(twoItems))
	region := &MemoryRegion{}
	ctl := New(srv.URL, Values{FieldKeyword: "k", FieldNumLinks: "2"}, region)

	require.NoError(t, ctl.Analyze(context.Background()))

	out := string(region.HTML())
	for _, want := range []string{
		"<h4>T1</h4>", `<a href="http://x" target="_blank">http://x</a>`, "<pre>A1</pre>",
		"<h4>T2</h4>", `<a href="http://y" target="_blank">http://y</a>`, "<pre>A2</pre>",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "T1"), strings.Index(out, "T2"))
	assert.Equal(t, 2, strings.Count(out, "<hr/>"))
}

func TestAnalyze_EmptyResultsClearsRegion(t *testing.T) {
	_, srv := newBackend(t, jsonReply(`{"results":[]}`))
	region := &MemoryRegion{}
	ctl := New(srv.URL, Values{FieldKeyword: "k", FieldNumLinks: "3"}, region)

	require.NoError(t, ctl.Analyze(context.Background()))
	assert.Equal(t, template.HTML(""), region.HTML())
}

func TestAnalyze_Failures(t *testing.T) {
	cases := map[string]func(w http.ResponseWriter, r *http.Request){
		"empty object": jsonReply(`{}`),
		"error field":  jsonReply(`{"error":"bad"}`),
		"null results": jsonReply(`{"results":null}`),
		"not json":     func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "<html>oops</html>") },
		"server error": func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) },
	}
	for name, respond := range cases {
		t.Run(name, func(t *testing.T) {
			_, srv := newBackend(t, respond)
			region := &MemoryRegion{}
			ctl := New(srv.URL, Values{FieldKeyword: "k", FieldNumLinks: "3"}, region)

			err := ctl.Analyze(context.Background())

			var failure Failure
			assert.True(t, errors.As(err, &failure))
			assert.Equal(t, ErrorMessage, region.HTML())
		})
	}
}

func TestAnalyze_NetworkFailure(t *testing.T) {
	_, srv := newBackend(t, jsonReply(twoItems))
	srv.Close()
	region := &MemoryRegion{}
	ctl := New(srv.URL, Values{FieldKeyword: "k", FieldNumLinks: "3"}, region)

	assert.Error(t, ctl.Analyze(context.Background()))
	assert.Equal(t, ErrorMessage, region.HTML())
}

func TestAnalyze_LoadingShownWhilePending(t *testing.T) {
	region := &MemoryRegion{}
	var during atomic.Value
	_, srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		during.Store(region.HTML())
		jsonReply(twoItems)(w, r)
	})
	ctl := New(srv.URL, Values{FieldKeyword: "k", FieldNumLinks: "3"}, region)

	require.NoError(t, ctl.Analyze(context.Background()))
	assert.Equal(t, LoadingMessage, during.Load())
}

func TestAnalyze_Idempotent(t *testing.T) {
	_, srv := newBackend(t, jsonReply(twoItems))
	region := &MemoryRegion{}
	ctl := New(srv.URL, Values{FieldKeyword: "k", FieldNumLinks: "2"}, region)

	require.NoError(t, ctl.Analyze(context.Background()))
	first := region.HTML()
	require.NoError(t, ctl.Analyze(context.Background()))

	assert.Equal(t, first, region.HTML())
}

func TestAnalyze_StaleResponseDropped(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	// 只对 "slow" 关键词阻塞，模拟先发后至的请求
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Keyword == "slow" {
			close(arrived)
			<-release
			jsonReply(`{"results":[{"title":"OLD","link":"http://old","analysis":"old"}]}`)(w, r)
			return
		}
		jsonReply(`{"results":[{"title":"NEW","link":"http://new","analysis":"new"}]}`)(w, r)
	}))
	defer srv.Close()

	region := &MemoryRegion{}
	form := &switchForm{values: Values{FieldKeyword: "slow", FieldNumLinks: "1"}}
	ctl := New(srv.URL, form, region)

	firstErr := make(chan error, 1)
	go func() { firstErr <- ctl.Analyze(context.Background()) }()
	<-arrived

	form.set(FieldKeyword, "fast")
	require.NoError(t, ctl.Analyze(context.Background()))
	close(release)

	assert.ErrorIs(t, <-firstErr, ErrStale)
	assert.Contains(t, string(region.HTML()), "NEW")
	assert.NotContains(t, string(region.HTML()), "OLD")
}

func TestAnalyze_ValidationSupersedesPending(t *testing.T) {
	release := make(chan struct{})
	arrived := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		jsonReply(twoItems)(w, r)
	}))
	defer srv.Close()

	region := &MemoryRegion{}
	form := &switchForm{values: Values{FieldKeyword: "k", FieldNumLinks: "2"}}
	ctl := New(srv.URL, form, region)

	firstErr := make(chan error, 1)
	go func() { firstErr <- ctl.Analyze(context.Background()) }()
	<-arrived

	form.set(FieldKeyword, " ")
	assert.ErrorIs(t, ctl.Analyze(context.Background()), ErrEmptyKeyword)
	close(release)

	assert.ErrorIs(t, <-firstErr, ErrStale)
	assert.Equal(t, KeywordPrompt, region.HTML())
}

func TestDiagnosis_RendersSingleBlock(t *testing.T) {
	b, srv := newBackend(t, jsonReply(`{"result":"Diagnosis text"}`))
	region := &MemoryRegion{}
	ctl := New(srv.URL, Values{FieldKeyword: "허리 통증"}, region)

	require.NoError(t, ctl.Diagnosis(context.Background()))

	assert.Equal(t, DiagnosisPath, b.path.Load())
	assert.Equal(t, map[string]any{"keyword": "허리 통증"}, b.body.Load())
	assert.Equal(t, template.HTML("<pre>Diagnosis text</pre>"), region.HTML())
}

func TestDiagnosis_NoLocalKeywordCheck(t *testing.T) {
	b, srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"No keyword provided"}`)
	})
	region := &MemoryRegion{}
	ctl := New(srv.URL, Values{FieldKeyword: ""}, region)

	assert.Error(t, ctl.Diagnosis(context.Background()))
	assert.EqualValues(t, 1, b.calls.Load())
	assert.Equal(t, ErrorMessage, region.HTML())
}

func TestDiagnosis_Failures(t *testing.T) {
	for _, body := range []string{`{}`, `{"result":""}`, `{"result":null}`, `nope`} {
		_, srv := newBackend(t, jsonReply(body))
		region := &MemoryRegion{}
		ctl := New(srv.URL, Values{FieldKeyword: "k"}, region)

		assert.Error(t, ctl.Diagnosis(context.Background()), body)
		assert.Equal(t, ErrorMessage, region.HTML(), body)
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	out := string(Items{Items: []Item{{Title: "<b>x</b>", Link: "javascript:alert(1)", Analysis: "a & b"}}}.Render())

	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, out, `href="javascript:`)
	assert.Contains(t, out, "a &amp; b")
}

// switchForm 允许测试中途修改输入值
type switchForm struct {
	mu     sync.Mutex
	values Values
}

func (f *switchForm) Value(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[id]
}

func (f *switchForm) set(id, v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[id] = v
}
