package data

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/clinic_radar/app/display/internal/domain"
	"github.com/iWorld-y/clinic_radar/app/display/internal/repo"
)

const (
	analysisCSV  = "analysis_results.csv"
	diagnosisCSV = "diagnosis_results.csv"
)

type resultRepo struct {
	data *Data
	log  *log.Helper
}

func NewResultRepo(data *Data, logger log.Logger) repo.ResultRepo {
	return &resultRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *resultRepo) SaveAnalysis(ctx context.Context, run *domain.AnalysisRun) error {
	if r.data.db == nil {
		rows := make([][]string, 0, len(run.Findings))
		for _, f := range run.Findings {
			rows = append(rows, []string{run.ID, run.Keyword, f.Title, f.Link, f.Analysis})
		}
		return r.data.appendCSV(analysisCSV, rows)
	}

	tx, err := r.data.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := r.data.rebind(`INSERT INTO analysis_results (run_id, keyword, title, link, analysis, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	for _, f := range run.Findings {
		if _, err := tx.ExecContext(ctx, query, run.ID, run.Keyword, f.Title, f.Link, f.Analysis, run.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *resultRepo) SaveDiagnosis(ctx context.Context, d *domain.Diagnosis) error {
	if r.data.db == nil {
		return r.data.appendCSV(diagnosisCSV, [][]string{{d.Keyword, d.Result}})
	}

	query := r.data.rebind(`INSERT INTO diagnosis_results (keyword, result, created_at) VALUES (?, ?, ?)`)
	_, err := r.data.db.ExecContext(ctx, query, d.Keyword, d.Result, d.CreatedAt)
	return err
}

func (d *Data) appendCSV(name string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	d.csvMu.Lock()
	defer d.csvMu.Unlock()

	f, err := os.OpenFile(filepath.Join(d.csvDir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
