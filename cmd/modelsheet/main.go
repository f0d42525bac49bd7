// Package main provides the CLI entry point for modelsheet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/ukaji3/modelsheet-go/internal/config"
	"github.com/ukaji3/modelsheet-go/internal/derivative"
	"github.com/ukaji3/modelsheet-go/internal/logging"
	"github.com/ukaji3/modelsheet-go/internal/metrics"
	"github.com/ukaji3/modelsheet-go/internal/service"
	"github.com/ukaji3/modelsheet-go/internal/storage"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modelsheet",
		Short: "Flatten model metadata into spreadsheet workbooks",
		Long: `modelsheet walks the object hierarchy of each model view, merges the
property groups of every element and writes one sheet per category.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./modelsheet.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newObjectCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded

	logger, err = logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

// serviceDeps selects which collaborators a command needs.
type serviceDeps struct {
	source bool
	store  bool
}

func newService(ctx context.Context, deps serviceDeps, source string) (*service.Service, error) {
	opts, err := cfg.Export.BuildOptions()
	if err != nil {
		return nil, err
	}

	var src service.Source
	if deps.source {
		src = derivative.NewClient(derivative.Config{
			BaseURL:      cfg.Derivative.BaseURL,
			ClientID:     cfg.Derivative.ClientID,
			ClientSecret: cfg.Derivative.ClientSecret,
			Scope:        cfg.Derivative.Scope,
			Timeout:      cfg.Derivative.Timeout,
			RetryCount:   cfg.Derivative.RetryCount,
			RetryWait:    cfg.Derivative.RetryWait,
		}, logger)
	}

	var store storage.ObjectStore
	if deps.store {
		s3Store, err := storage.NewS3Store(ctx, storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UsePathStyle:    cfg.Storage.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, err
		}
		store = s3Store
	}

	return service.New(src, store, service.Config{
		OutDir:    cfg.Export.OutDir,
		Extension: cfg.Export.Extension,
		Options:   opts,
	}, logger, metrics.NewRecorder(source)), nil
}

// printResult reports written files on stdout.
func printResult(cmd *cobra.Command, result service.ExportResult) {
	out := cmd.OutOrStdout()
	for _, f := range result.Files {
		fmt.Fprintf(out, "%s %s\n", color.GreenString("wrote"), f)
	}
	for _, u := range result.Uploaded {
		fmt.Fprintf(out, "%s %s\n", color.GreenString("uploaded"), u)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, "%s %d element(s) without an id in their label\n", color.YellowString("skipped"), result.Skipped)
	}
}
