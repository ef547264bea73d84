package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/clinic_radar/app/display/internal/domain"
	"github.com/iWorld-y/clinic_radar/app/display/internal/repo"
)

// DiagnosisUseCase 诊断代码查询业务逻辑
type DiagnosisUseCase struct {
	inspector Inspector
	repo      repo.ResultRepo
	log       *log.Helper
}

// NewDiagnosisUseCase 创建诊断业务逻辑实例
func NewDiagnosisUseCase(inspector Inspector, repo repo.ResultRepo, logger log.Logger) *DiagnosisUseCase {
	return &DiagnosisUseCase{inspector: inspector, repo: repo, log: log.NewHelper(logger)}
}

// Diagnose 查询关键词对应的诊断代码
func (uc *DiagnosisUseCase) Diagnose(ctx context.Context, keyword string) (*domain.Diagnosis, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrNoKeyword
	}

	result, err := uc.inspector.Diagnose(ctx, keyword)
	if err != nil {
		return nil, errors.New(502, "DIAGNOSIS_FAILED", err.Error())
	}

	d := &domain.Diagnosis{Keyword: keyword, Result: result, CreatedAt: time.Now()}
	if err := uc.repo.SaveDiagnosis(ctx, d); err != nil {
		uc.log.WithContext(ctx).Errorf("save diagnosis %q: %v", keyword, err)
	}
	return d, nil
}
