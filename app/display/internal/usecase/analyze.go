package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/model"
	"github.com/iWorld-y/clinic_radar/app/display/internal/domain"
	"github.com/iWorld-y/clinic_radar/app/display/internal/repo"
)

const (
	// DefaultNumLinks 请求未指定数量时分析的篇数
	DefaultNumLinks = 5
	MaxNumLinks     = 20
)

// Inspector 博客分析与诊断代码查询能力
type Inspector interface {
	Inspect(ctx context.Context, keyword string, numLinks int) ([]model.Finding, error)
	Diagnose(ctx context.Context, keyword string) (string, error)
}

// ErrNoKeyword 请求没有关键词
var ErrNoKeyword = errors.BadRequest("NO_KEYWORD", "No keyword provided")

// AnalyzeUseCase 博客广告分析业务逻辑
type AnalyzeUseCase struct {
	inspector Inspector
	repo      repo.ResultRepo
	log       *log.Helper
}

// NewAnalyzeUseCase 创建分析业务逻辑实例
func NewAnalyzeUseCase(inspector Inspector, repo repo.ResultRepo, logger log.Logger) *AnalyzeUseCase {
	return &AnalyzeUseCase{inspector: inspector, repo: repo, log: log.NewHelper(logger)}
}

// Analyze 分析关键词相关的博客。numLinks 为 0 时使用默认值。
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, keyword string, numLinks int) (*domain.AnalysisRun, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrNoKeyword
	}
	if numLinks == 0 {
		numLinks = DefaultNumLinks
	}
	if numLinks < 1 || numLinks > MaxNumLinks {
		return nil, errors.BadRequest("INVALID_NUM_LINKS", "num_links must be between 1 and 20")
	}

	run := &domain.AnalysisRun{
		ID:        uuid.NewString(),
		Keyword:   keyword,
		NumLinks:  numLinks,
		CreatedAt: time.Now(),
	}
	uc.log.WithContext(ctx).Infof("analysis %s started: keyword=%q num_links=%d", run.ID, keyword, numLinks)

	findings, err := uc.inspector.Inspect(ctx, keyword, numLinks)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("analysis %s failed: %v", run.ID, err)
		return nil, errors.New(502, "SEARCH_FAILED", err.Error())
	}

	run.Findings = make([]*domain.Finding, 0, len(findings))
	for _, f := range findings {
		run.Findings = append(run.Findings, &domain.Finding{Title: f.Title, Link: f.Link, Analysis: f.Analysis})
	}

	if err := uc.repo.SaveAnalysis(ctx, run); err != nil {
		uc.log.WithContext(ctx).Errorf("save analysis %s: %v", run.ID, err)
	}
	return run, nil
}
