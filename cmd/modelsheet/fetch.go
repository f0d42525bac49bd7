package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/modelsheet-go/internal/service"
)

var (
	fetchBucket  string
	fetchObject  string
	uploadBucket string
)

func newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Export workbooks for every view of a translated model",
		Long: `fetch pulls the view list, object trees and property collections of a
model from the model-derivative API and writes one workbook per view.`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}

	cmd.Flags().StringVar(&fetchBucket, "bucket", "", "Bucket holding the model object")
	cmd.Flags().StringVar(&fetchObject, "object", "", "Model object name, e.g. tower.rvt")
	cmd.Flags().StringVar(&uploadBucket, "upload-bucket", "", "Also upload the workbooks to this bucket")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output directory (default: export.out_dir)")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	if outDir != "" {
		cfg.Export.OutDir = outDir
	}

	svc, err := newService(cmd.Context(), serviceDeps{source: true, store: uploadBucket != ""}, "cli")
	if err != nil {
		return err
	}

	result, err := svc.Excel(cmd.Context(), service.ObjectRequest{
		Bucket:       fetchBucket,
		Object:       fetchObject,
		UploadBucket: uploadBucket,
	})
	printResult(cmd, result)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	return nil
}
