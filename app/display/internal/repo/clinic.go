package repo

import (
	"context"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/trend"
	"github.com/iWorld-y/clinic_radar/app/display/internal/domain"
)

// ResultRepo 分析与诊断结果仓库接口
type ResultRepo interface {
	// SaveAnalysis 保存一次分析的全部条目
	SaveAnalysis(ctx context.Context, run *domain.AnalysisRun) error
	// SaveDiagnosis 保存诊断结果
	SaveDiagnosis(ctx context.Context, d *domain.Diagnosis) error
}

// TrendSource 趋势记录来源
type TrendSource interface {
	Load(ctx context.Context) ([]trend.Record, error)
}
