package server

import (
	"embed"
	"io/fs"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/clinic_radar/app/display/internal/conf"
	"github.com/iWorld-y/clinic_radar/app/display/internal/service"
)

//go:embed assets
var assets embed.FS

const defaultTimeout = 5 * time.Minute

func NewHTTPServer(c *conf.Server, s *service.DisplayService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.ErrorEncoder(service.ErrorEncoder),
		// 分析需要抓取并调用模型，默认超时比 kratos 的 1s 长得多
		http.Timeout(defaultTimeout),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			} else {
				log.NewHelper(logger).Warnf("invalid http timeout %q: %v", c.Http.Timeout, err)
			}
		}
	}

	srv := http.NewServer(opts...)
	service.RegisterDisplayHTTPServer(srv, s)

	srv.HandleFunc("/", page("assets/index.html"))
	srv.HandleFunc("/analyze", page("assets/analyze.html"))
	srv.HandleFunc("/trend", s.TrendPage)

	static, _ := fs.Sub(assets, "assets/static")
	srv.HandlePrefix("/static/", nethttp.StripPrefix("/static/", nethttp.FileServer(nethttp.FS(static))))

	return srv
}

func page(name string) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		content, err := assets.ReadFile(name)
		if err != nil {
			nethttp.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(content)
	}
}
