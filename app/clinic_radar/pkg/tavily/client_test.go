package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	c := NewClient("tvly-key", "병원")
	c.endpoint = url
	return c
}

func TestSearchLinks(t *testing.T) {
	var got SearchRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, `{"query":"q","results":[
			{"title":"a","url":"https://blog.naver.com/a/1","score":0.9},
			{"title":"a","url":"https://blog.naver.com/a/1","score":0.8},
			{"title":"x","url":"https://example.com/x","score":0.5}
		]}`)
	}))
	defer srv.Close()

	links, err := newTestClient(srv.URL).SearchLinks(context.Background(), "도수치료", 30)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://blog.naver.com/a/1"}, links)
	assert.Equal(t, "Bearer tvly-key", auth)
	assert.Equal(t, "도수치료 병원", got.Query)
	assert.Equal(t, []string{"blog.naver.com"}, got.IncludeDomains)
	assert.Equal(t, maxResults, got.MaxResults)
}

func TestSearchLinks_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"invalid key"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchLinks(context.Background(), "k", 5)
	assert.ErrorContains(t, err, "status 401")
	assert.ErrorContains(t, err, "invalid key")
}
