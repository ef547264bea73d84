package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/model"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/naver"
)

func init() {
	logger.Discard()
}

type fakeSource struct {
	links     []string
	searchErr error
	empty     map[string]bool
	failing   map[string]bool

	mu      sync.Mutex
	fetched []string
	gotMax  int
}

func (f *fakeSource) SearchLinks(_ context.Context, _ string, max int) ([]string, error) {
	f.gotMax = max
	return f.links, f.searchErr
}

func (f *fakeSource) FetchPost(_ context.Context, link string) (*model.BlogPost, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, link)
	f.mu.Unlock()

	switch {
	case f.empty[link]:
		return nil, naver.ErrEmptyContent
	case f.failing[link]:
		return nil, errors.New("connection reset")
	}
	return &model.BlogPost{Title: "title " + link, Link: link, Content: "body " + link}, nil
}

type fakeChatter struct {
	calls   atomic.Int32
	reply   func(n int32, system, user string) (string, error)
	systems sync.Map
}

func (f *fakeChatter) Chat(_ context.Context, system, user string) (string, error) {
	n := f.calls.Add(1)
	f.systems.Store(system, true)
	return f.reply(n, system, user)
}

func echo() *fakeChatter {
	return &fakeChatter{reply: func(_ int32, _, user string) (string, error) {
		// 回显正文所在行，方便断言
		for _, line := range strings.Split(user, "\n") {
			if strings.HasPrefix(line, "body ") {
				return "analysis of " + strings.TrimPrefix(line, "body "), nil
			}
		}
		return user, nil
	}}
}

func TestInspect_KeepsCandidateOrder(t *testing.T) {
	src := &fakeSource{
		links:   []string{"l1", "l2", "l3", "l4", "l5", "l6"},
		empty:   map[string]bool{"l2": true},
		failing: map[string]bool{"l3": true},
	}
	e := New(src, echo(), Options{Candidates: 30, Crawlers: 2})

	findings, err := e.Inspect(context.Background(), "도수치료", 3)
	require.NoError(t, err)

	want := []model.Finding{
		{Title: "title l1", Link: "l1", Analysis: "analysis of l1"},
		{Title: "title l4", Link: "l4", Analysis: "analysis of l4"},
		{Title: "title l5", Link: "l5", Analysis: "analysis of l5"},
	}
	if diff := cmp.Diff(want, findings); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 30, src.gotMax)
	assert.NotContains(t, src.fetched, "l6")
}

func TestInspect_FewerPostsThanRequested(t *testing.T) {
	src := &fakeSource{links: []string{"a", "b"}, empty: map[string]bool{"b": true}}
	e := New(src, echo(), Options{})

	findings, err := e.Inspect(context.Background(), "k", 5)

	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestInspect_NoCandidates(t *testing.T) {
	e := New(&fakeSource{}, echo(), Options{})

	findings, err := e.Inspect(context.Background(), "k", 5)

	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.NotNil(t, findings)
}

func TestInspect_SearchError(t *testing.T) {
	e := New(&fakeSource{searchErr: errors.New("blocked")}, echo(), Options{})

	_, err := e.Inspect(context.Background(), "k", 5)

	assert.ErrorContains(t, err, "blocked")
}

func TestInspect_ChatFailureBecomesText(t *testing.T) {
	chat := &fakeChatter{reply: func(int32, string, string) (string, error) {
		return "", errors.New("invalid api key")
	}}
	e := New(&fakeSource{links: []string{"a"}}, chat, Options{})

	findings, err := e.Inspect(context.Background(), "k", 1)

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "❌ LLM 호출 실패: invalid api key", findings[0].Analysis)
	assert.EqualValues(t, 1, chat.calls.Load())
}

func TestChat_RetriesOnRateLimit(t *testing.T) {
	chat := &fakeChatter{reply: func(n int32, _, _ string) (string, error) {
		if n < 3 {
			return "", fmt.Errorf("potens api error (status 429): slow down")
		}
		return "ok", nil
	}}
	e := New(&fakeSource{}, chat, Options{MaxRetries: 3, BaseDelay: time.Millisecond})

	out, err := e.Diagnose(context.Background(), "허리 통증")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 3, chat.calls.Load())
}

func TestChat_GivesUpAfterMaxRetries(t *testing.T) {
	chat := &fakeChatter{reply: func(int32, string, string) (string, error) {
		return "", errors.New("429 Too Many Requests")
	}}
	e := New(&fakeSource{}, chat, Options{MaxRetries: 2, BaseDelay: time.Millisecond})

	out, err := e.Diagnose(context.Background(), "k")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "❌ LLM 호출 실패"))
	assert.EqualValues(t, 3, chat.calls.Load())
}

func TestDiagnose_Prompt(t *testing.T) {
	var got string
	chat := &fakeChatter{reply: func(_ int32, _, user string) (string, error) {
		got = user
		return "M54.5 요통", nil
	}}
	e := New(&fakeSource{}, chat, Options{})

	out, err := e.Diagnose(context.Background(), "허리 통증")

	require.NoError(t, err)
	assert.Equal(t, "M54.5 요통", out)
	assert.Contains(t, got, "'허리 통증' 증상으로")
	_, ok := chat.systems.Load(diagnosisSystemPrompt)
	assert.True(t, ok)
}

func TestDiagnose_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(&fakeSource{}, echo(), Options{})

	_, err := e.Diagnose(ctx, "k")

	assert.ErrorIs(t, err, context.Canceled)
}

type staticLinks []string

func (s staticLinks) SearchLinks(_ context.Context, _ string, max int) ([]string, error) {
	return s[:min(max, len(s))], nil
}

func TestBlogSource_CombinesSearchAndFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><meta property="og:title" content="T%s"></head><body><div class="se-main-container">본문</div></body></html>`, r.URL.Path)
	}))
	defer srv.Close()

	src := blogSource{
		links:   staticLinks{srv.URL + "/1", srv.URL + "/2"},
		fetcher: naver.NewClient(config.NaverConfig{}),
	}
	e := New(src, echo(), Options{})

	findings, err := e.Inspect(context.Background(), "k", 2)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	assert.Equal(t, "T/1", findings[0].Title)
	assert.Equal(t, "T/2", findings[1].Title)
}
