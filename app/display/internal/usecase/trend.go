package usecase

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/trend"
	"github.com/iWorld-y/clinic_radar/app/display/internal/domain"
	"github.com/iWorld-y/clinic_radar/app/display/internal/repo"
)

// TrendUseCase 趋势看板业务逻辑
type TrendUseCase struct {
	source repo.TrendSource
	log    *log.Helper
	now    func() time.Time
}

// NewTrendUseCase 创建趋势业务逻辑实例
func NewTrendUseCase(source repo.TrendSource, logger log.Logger) *TrendUseCase {
	return &TrendUseCase{source: source, log: log.NewHelper(logger), now: time.Now}
}

// Board 按关键词汇总当前的趋势记录
func (uc *TrendUseCase) Board(ctx context.Context) (*domain.TrendBoard, error) {
	records, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	today := uc.now()
	rows := trend.Summarize(records, today)
	uc.log.WithContext(ctx).Debugf("trend board: %d records, %d keywords", len(records), len(rows))

	return &domain.TrendBoard{
		Date:    today.Format(trend.DateLayout),
		Columns: trend.Columns,
		Rows:    trend.Table(rows),
	}, nil
}
