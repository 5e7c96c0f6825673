// Package cmd implements the fieldops CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fieldops/dispatch/app"
	"github.com/fieldops/dispatch/config"
	"github.com/fieldops/dispatch/infra/logger"
	"github.com/fieldops/dispatch/infra/store"
)

var (
	cfgPath  string
	seedPath string
)

var rootCmd = &cobra.Command{
	Use:   "fieldops",
	Short: "Field service dispatch service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "JSON file of jobs and team members loaded into the memory store")
}

// Execute runs the CLI.
func Execute() error {
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// newService loads the configuration, builds the service and applies
// the seed file when the memory backend is active.
func newService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	if seedPath != "" {
		ms, ok := svc.Jobs.(*store.MemoryStore)
		if !ok {
			return nil, fmt.Errorf("--seed requires the memory store backend")
		}
		if err := loadSeed(seedPath, ms); err != nil {
			return nil, fmt.Errorf("load seed: %w", err)
		}
	}
	return svc, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
