package service

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/clinic_radar/app/display/internal/usecase"
)

const (
	OperationAnalyze   = "/clinic.v1.Display/Analyze"
	OperationDiagnosis = "/clinic.v1.Display/Diagnosis"
	OperationTrend     = "/clinic.v1.Display/Trend"
)

//go:embed templates/*
var templates embed.FS

var trendTpl = template.Must(template.ParseFS(templates, "templates/trend.html"))

// AnalyzeReq /api/analyze 请求体
type AnalyzeReq struct {
	Keyword  string `json:"keyword"`
	NumLinks int    `json:"num_links"`
}

// AnalyzeItem 单篇分析结果
type AnalyzeItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Analysis string `json:"analysis"`
}

// AnalyzeReply /api/analyze 响应体
type AnalyzeReply struct {
	Results []AnalyzeItem `json:"results"`
}

// DiagnosisReq /api/diagnosis 请求体
type DiagnosisReq struct {
	Keyword string `json:"keyword"`
}

// DiagnosisReply /api/diagnosis 响应体
type DiagnosisReply struct {
	Result string `json:"result"`
}

// TrendReply /api/trend 响应体
type TrendReply struct {
	Date    string     `json:"date"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type DisplayService struct {
	ucAnalyze   *usecase.AnalyzeUseCase
	ucDiagnosis *usecase.DiagnosisUseCase
	ucTrend     *usecase.TrendUseCase
	log         *log.Helper
}

func NewDisplayService(ucAnalyze *usecase.AnalyzeUseCase, ucDiagnosis *usecase.DiagnosisUseCase, ucTrend *usecase.TrendUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		ucAnalyze:   ucAnalyze,
		ucDiagnosis: ucDiagnosis,
		ucTrend:     ucTrend,
		log:         log.NewHelper(logger),
	}
}

func (s *DisplayService) Analyze(ctx context.Context, req *AnalyzeReq) (*AnalyzeReply, error) {
	run, err := s.ucAnalyze.Analyze(ctx, req.Keyword, req.NumLinks)
	if err != nil {
		return nil, err
	}

	results := make([]AnalyzeItem, 0, len(run.Findings))
	for _, f := range run.Findings {
		results = append(results, AnalyzeItem{Title: f.Title, Link: f.Link, Analysis: f.Analysis})
	}
	return &AnalyzeReply{Results: results}, nil
}

func (s *DisplayService) Diagnosis(ctx context.Context, req *DiagnosisReq) (*DiagnosisReply, error) {
	d, err := s.ucDiagnosis.Diagnose(ctx, req.Keyword)
	if err != nil {
		return nil, err
	}
	return &DiagnosisReply{Result: d.Result}, nil
}

func (s *DisplayService) Trend(ctx context.Context) (*TrendReply, error) {
	board, err := s.ucTrend.Board(ctx)
	if err != nil {
		return nil, err
	}
	return &TrendReply{Date: board.Date, Columns: board.Columns, Rows: board.Rows}, nil
}

// TrendPage 渲染趋势看板页面
func (s *DisplayService) TrendPage(w nethttp.ResponseWriter, r *nethttp.Request) {
	board, err := s.ucTrend.Board(r.Context())
	if err != nil {
		s.log.WithContext(r.Context()).Errorf("load trend board: %v", err)
		nethttp.Error(w, "failed to load trend data", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := trendTpl.Execute(w, board); err != nil {
		s.log.WithContext(r.Context()).Errorf("render trend page: %v", err)
	}
}

// RegisterDisplayHTTPServer 注册 JSON 接口
func RegisterDisplayHTTPServer(srv *http.Server, s *DisplayService) {
	r := srv.Route("/")
	r.POST("/api/analyze", analyzeHandler(s))
	r.POST("/api/diagnosis", diagnosisHandler(s))
	r.GET("/api/trend", trendHandler(s))
}

func analyzeHandler(s *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in AnalyzeReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationAnalyze)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return s.Analyze(ctx, req.(*AnalyzeReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.JSON(200, out)
	}
}

func diagnosisHandler(s *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in DiagnosisReq
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDiagnosis)
		h := ctx.Middleware(func(ctx context.Context, req any) (any, error) {
			return s.Diagnosis(ctx, req.(*DiagnosisReq))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.JSON(200, out)
	}
}

func trendHandler(s *DisplayService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationTrend)
		h := ctx.Middleware(func(ctx context.Context, _ any) (any, error) {
			return s.Trend(ctx)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.JSON(200, out)
	}
}

// ErrorEncoder 把错误编码为 {"error": message}
func ErrorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(se.Code))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": se.Message})
}
