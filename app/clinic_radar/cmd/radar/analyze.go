package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/controller"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		server   string
		keyword  string
		numLinks string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze hospital blog posts for a keyword through the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := serverURL(server)
			if err != nil {
				return err
			}
			form := controller.Values{
				controller.FieldKeyword:  keyword,
				controller.FieldNumLinks: numLinks,
			}
			return run(cmd.Context(), cmd.OutOrStdout(), base, form, (*controller.Controller).Analyze)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&server, "server", "", "server base URL (defaults to server.base_url from config)")
	flags.StringVar(&keyword, "keyword", "", "treatment or symptom keyword")
	flags.StringVar(&numLinks, "num-links", strconv.Itoa(5), "number of blog posts to analyze (1-20)")
	return cmd
}

func newDiagnosisCmd() *cobra.Command {
	var (
		server  string
		keyword string
	)

	cmd := &cobra.Command{
		Use:   "diagnosis",
		Short: "Look up diagnosis codes for a symptom keyword through the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := serverURL(server)
			if err != nil {
				return err
			}
			form := controller.Values{controller.FieldKeyword: keyword}
			return run(cmd.Context(), cmd.OutOrStdout(), base, form, (*controller.Controller).Diagnosis)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&server, "server", "", "server base URL (defaults to server.base_url from config)")
	flags.StringVar(&keyword, "keyword", "", "symptom keyword")
	return cmd
}

func serverURL(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Server.BaseURL, nil
}

// run 执行一次控制器操作，并输出结果区域的最终内容
func run(ctx context.Context, w io.Writer, base string, form controller.Form, op func(*controller.Controller, context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	region := &controller.MemoryRegion{}
	ctl := controller.New(base, form, region)

	err := op(ctl, ctx)
	fmt.Fprintln(w, region.HTML())
	return err
}
