package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Naver       NaverConfig       `yaml:"naver"`
	Cafe        CafeConfig        `yaml:"cafe"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// ServerConfig 命令行客户端访问的后端地址
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string `yaml:"provider"` // potens or openai
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Timeout  int    `yaml:"timeout"` // 秒
}

// NaverConfig 博客搜索与抓取配置
type NaverConfig struct {
	Provider    string        `yaml:"provider"` // naver, searxng or tavily
	SearchURL   string        `yaml:"search_url"`
	QuerySuffix string        `yaml:"query_suffix"`
	UserAgent   string        `yaml:"user_agent"`
	Candidates  int           `yaml:"candidates"`
	Timeout     int           `yaml:"timeout"` // 秒
	SearXNG     SearXNGConfig `yaml:"searxng"`
	Tavily      TavilyConfig  `yaml:"tavily"`
}

// SearXNGConfig SearXNG 搜索配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // 秒
}

// TavilyConfig Tavily 搜索配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// CafeConfig 趋势数据采集配置
type CafeConfig struct {
	SearchURL string   `yaml:"search_url"`
	Keywords  []string `yaml:"keywords"`
	Pages     int      `yaml:"pages"`
	Output    string   `yaml:"output"`
	Headless  bool     `yaml:"headless"`
	Browser   string   `yaml:"browser"`
	Pause     int      `yaml:"pause"` // 毫秒，翻页后的等待时间
	Schedule  string   `yaml:"schedule"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS      int `yaml:"qps"`
	RPM      int `yaml:"rpm"`
	Crawlers int `yaml:"crawlers"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{BaseURL: "http://127.0.0.1:8000"},
		LLM: LLMConfig{
			Provider: "potens",
			BaseURL:  "https://ai.potens.ai/api/chat",
			Timeout:  60,
		},
		Naver: NaverConfig{
			Provider:    "naver",
			SearchURL:   "https://search.naver.com/search.naver",
			QuerySuffix: "병원",
			UserAgent:   "Mozilla/5.0",
			Candidates:  30,
			Timeout:     5,
		},
		Cafe: CafeConfig{
			SearchURL: "https://section.cafe.naver.com/ca-fe/home/search/articles",
			Pages:     50,
			Output:    "trend_data.csv",
			Headless:  true,
			Pause:     3000,
		},
		Log: LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{
			QPS:      2,
			RPM:      60,
			Crawlers: 5,
		},
	}
}

// LoadConfig 从指定路径加载配置，未填写的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
