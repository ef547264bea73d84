package conf

type Bootstrap struct {
	Server *Server
	Data   *Data
	Radar  *Radar
	Trend  *Trend
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
	// CsvDir 未配置数据库时，结果追加写入该目录下的 CSV 文件
	CsvDir string `json:"csv_dir"`
}

type Database struct {
	Driver string
	Source string
}

type Radar struct {
	Llm         *LLM         `json:"llm"`
	Naver       *Naver       `json:"naver"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	Provider string `json:"provider"`
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	Model    string `json:"model"`
	Timeout  int32  `json:"timeout"`
}

type Naver struct {
	Provider    string   `json:"provider"`
	SearchUrl   string   `json:"search_url"`
	QuerySuffix string   `json:"query_suffix"`
	UserAgent   string   `json:"user_agent"`
	Candidates  int32    `json:"candidates"`
	Timeout     int32    `json:"timeout"`
	Searxng     *SearXNG `json:"searxng"`
	Tavily      *Tavily  `json:"tavily"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps      int32 `json:"qps"`
	Rpm      int32 `json:"rpm"`
	Crawlers int32 `json:"crawlers"`
}

type Trend struct {
	// Source 趋势采集 CSV 的路径
	Source string `json:"source"`
}
