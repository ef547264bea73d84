package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/naver"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/searxng"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/tavily"
)

func TestNewLinkSearcher(t *testing.T) {
	html := naver.NewClient(config.NaverConfig{})

	s, err := NewLinkSearcher(config.NaverConfig{}, html)
	require.NoError(t, err)
	assert.Same(t, html, s)

	s, err = NewLinkSearcher(config.NaverConfig{
		Provider: "searxng",
		SearXNG:  config.SearXNGConfig{BaseURL: "http://localhost:8080"},
	}, html)
	require.NoError(t, err)
	assert.IsType(t, &searxng.Client{}, s)

	s, err = NewLinkSearcher(config.NaverConfig{
		Provider: "tavily",
		Tavily:   config.TavilyConfig{APIKey: "k"},
	}, html)
	require.NoError(t, err)
	assert.IsType(t, &tavily.Client{}, s)
}

func TestNewLinkSearcher_Errors(t *testing.T) {
	html := naver.NewClient(config.NaverConfig{})
	for _, cfg := range []config.NaverConfig{
		{Provider: "searxng"},
		{Provider: "tavily"},
		{Provider: "bing"},
	} {
		_, err := NewLinkSearcher(cfg, html)
		assert.Error(t, err, cfg.Provider)
	}
}
