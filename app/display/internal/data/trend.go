package data

import (
	"context"
	"errors"
	"io/fs"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/trend"
	"github.com/iWorld-y/clinic_radar/app/display/internal/conf"
	"github.com/iWorld-y/clinic_radar/app/display/internal/repo"
)

type trendSource struct {
	path string
	log  *log.Helper
}

func NewTrendSource(c *conf.Trend, logger log.Logger) repo.TrendSource {
	path := "trend_data.csv"
	if c != nil && c.Source != "" {
		path = c.Source
	}
	return &trendSource{path: path, log: log.NewHelper(logger)}
}

// Load 读取采集文件，文件尚未生成时返回空列表
func (s *trendSource) Load(ctx context.Context) ([]trend.Record, error) {
	records, err := trend.LoadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.WithContext(ctx).Warnf("trend source %s not found", s.path)
		return nil, nil
	}
	return records, err
}
