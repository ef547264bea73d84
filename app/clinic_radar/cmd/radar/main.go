package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/config"
	"github.com/iWorld-y/clinic_radar/app/clinic_radar/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "radar",
	Short:         "Inspect hospital blog ads and track community trends",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "app/clinic_radar/configs/config.yaml", "path to the config file")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDiagnosisCmd())
	rootCmd.AddCommand(newTrendCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "radar: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig 读取配置并初始化日志，配置文件不存在时使用默认值
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
