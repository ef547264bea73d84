package naver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
)

func init() {
	logger.Discard()
}

const searchPage = `<html><body>
<a href="https://blog.naver.com/a/1">a1</a>
<a href="https://cafe.naver.com/x">cafe</a>
<a href="https://blog.naver.com/a/1">dup</a>
<a href="https://blog.naver.com/b/2">b2</a>
<a>no href</a>
<a href="https://blog.naver.com/c/3">c3</a>
</body></html>`

func TestSearchLinks(t *testing.T) {
	var gotQuery, gotWhere, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotWhere = r.URL.Query().Get("where")
		gotUA = r.UserAgent()
		fmt.Fprint(w, searchPage)
	}))
	defer srv.Close()

	c := NewClient(config.NaverConfig{SearchURL: srv.URL, QuerySuffix: "병원"})

	links, err := c.SearchLinks(context.Background(), "도수치료", 30)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://blog.naver.com/a/1",
		"https://blog.naver.com/b/2",
		"https://blog.naver.com/c/3",
	}, links)
	assert.Equal(t, "도수치료 병원", gotQuery)
	assert.Equal(t, "view", gotWhere)
	assert.Equal(t, "Mozilla/5.0", gotUA)
}

func TestSearchLinks_StopsAtMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage)
	}))
	defer srv.Close()

	c := NewClient(config.NaverConfig{SearchURL: srv.URL})
	links, err := c.SearchLinks(context.Background(), "k", 2)

	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestSearchLinks_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(config.NaverConfig{SearchURL: srv.URL})
	_, err := c.SearchLinks(context.Background(), "k", 5)

	assert.ErrorContains(t, err, "403")
}

func TestFetchPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta property="og:title" content="허리 치료 후기"></head><body>
<div class="se-main-container">
  <p>  첫 줄 </p>
  <p><span>둘째</span> <b>줄</b></p>
  <p>   </p>
</div>
<div class="se-main-container"><p>ignored</p></div>
</body></html>`)
	}))
	defer srv.Close()

	c := NewClient(config.NaverConfig{})
	post, err := c.FetchPost(context.Background(), srv.URL+"/post/1")
	require.NoError(t, err)

	assert.Equal(t, "허리 치료 후기", post.Title)
	assert.Equal(t, srv.URL+"/post/1", post.Link)
	assert.Equal(t, "첫 줄\n둘째\n줄", post.Content)
}

func TestFetchPost_UntitledAndEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/untitled":
			fmt.Fprint(w, `<html><body><div class="se-main-container">본문</div></body></html>`)
		default:
			fmt.Fprint(w, `<html><body><div class="se-main-container">  </div></body></html>`)
		}
	}))
	defer srv.Close()

	c := NewClient(config.NaverConfig{})

	post, err := c.FetchPost(context.Background(), srv.URL+"/untitled")
	require.NoError(t, err)
	assert.Equal(t, UntitledPost, post.Title)

	_, err = c.FetchPost(context.Background(), srv.URL+"/empty")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestMobileURL(t *testing.T) {
	cases := map[string]string{
		"https://blog.naver.com/user/123":   "https://m.blog.naver.com/user/123",
		"https://m.blog.naver.com/user/123": "https://m.blog.naver.com/user/123",
		"https://example.com/blog.naver":    "https://example.com/blog.naver",
		"http://blog.naver.com/u?x=1":       "http://m.blog.naver.com/u?x=1",
	}
	for in, want := range cases {
		assert.Equal(t, want, MobileURL(in), in)
	}
}
