package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	cronlib "github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/cafe"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/trend"
)

func newTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Collect community articles and report keyword trends",
	}
	cmd.AddCommand(newTrendCollectCmd())
	cmd.AddCommand(newTrendReportCmd())
	return cmd
}

func newTrendCollectCmd() *cobra.Command {
	var (
		schedule string
		output   string
		keywords []string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Crawl article search results into the trend CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(keywords) > 0 {
				cfg.Cafe.Keywords = keywords
			}
			if output != "" {
				cfg.Cafe.Output = output
			}
			if schedule != "" {
				cfg.Cafe.Schedule = schedule
			}
			if len(cfg.Cafe.Keywords) == 0 {
				return errors.New("no keywords: set cafe.keywords or pass --keyword")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			crawler := cafe.NewCrawler(cfg.Cafe)
			if cfg.Cafe.Schedule == "" {
				return collectOnce(ctx, crawler, cfg.Cafe)
			}
			return collectOnSchedule(ctx, crawler, cfg.Cafe)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&schedule, "schedule", "", "standard cron spec; runs once when empty")
	flags.StringVar(&output, "output", "", "output CSV path (defaults to cafe.output)")
	flags.StringSliceVar(&keywords, "keyword", nil, "keywords to crawl (repeatable)")
	return cmd
}

func collectOnce(ctx context.Context, crawler *cafe.Crawler, cfg config.CafeConfig) error {
	records, err := crawler.Collect(ctx, cfg.Keywords, time.Now())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Log.Warn("没有采集到任何数据")
		return nil
	}
	if err := trend.SaveFile(cfg.Output, records); err != nil {
		return fmt.Errorf("save %s: %w", cfg.Output, err)
	}
	logger.Log.Infof("已保存 %d 条记录到 %s", len(records), cfg.Output)
	return nil
}

func collectOnSchedule(ctx context.Context, crawler *cafe.Crawler, cfg config.CafeConfig) error {
	sched := cronlib.New()
	_, err := sched.AddFunc(cfg.Schedule, func() {
		if err := collectOnce(ctx, crawler, cfg); err != nil {
			logger.Log.Errorf("定时采集失败: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
	}

	logger.Log.Infof("按计划 [%s] 采集，Ctrl+C 退出", cfg.Schedule)
	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}

func newTrendReportCmd() *cobra.Command {
	var (
		source  string
		todayAt string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the keyword trend dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				source = cfg.Cafe.Output
			}

			today := time.Now()
			if todayAt != "" {
				d, ok := trend.ParseDate(todayAt)
				if !ok {
					return fmt.Errorf("invalid --today value %q", todayAt)
				}
				today = d
			}

			records, err := trend.LoadFile(source)
			if err != nil {
				return err
			}
			writeBoard(cmd.OutOrStdout(), trend.Summarize(records, today))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&source, "source", "", "trend CSV path (defaults to cafe.output)")
	flags.StringVar(&todayAt, "today", "", "reference date as YYYY-MM-DD (defaults to today)")
	return cmd
}

func writeBoard(w io.Writer, rows []trend.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true

	header := make(table.Row, 0, len(trend.Columns))
	for _, c := range trend.Columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 7, WidthMax: 40},
		{Number: 8, WidthMax: 40},
	})

	for _, r := range rows {
		cells := r.Cells()
		row := make(table.Row, 0, len(cells))
		for _, c := range cells {
			row = append(row, c)
		}
		tw.AppendRow(row)
	}
	if len(rows) == 0 {
		tw.AppendRow(table.Row{"(no data)"})
	}
	tw.Render()
}
