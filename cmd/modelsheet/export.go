package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet"
)

var (
	hierarchyPath  string
	propertiesPath string
	modelName      string
	outDir         string
	strict         bool
	columns        string
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a workbook from hierarchy and property JSON files",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().StringVar(&hierarchyPath, "hierarchy", "", "Hierarchy (object tree) JSON file")
	cmd.Flags().StringVar(&propertiesPath, "properties", "", "Property collection JSON file")
	cmd.Flags().StringVar(&modelName, "model", "", "Source model file name used to name the workbook (default: hierarchy file name)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Output directory (default: export.out_dir)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when an element label carries no id")
	cmd.Flags().StringVar(&columns, "columns", "", "Header mode: first-row or union (default: export.columns)")
	_ = cmd.MarkFlagRequired("hierarchy")
	_ = cmd.MarkFlagRequired("properties")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	for _, p := range []string{hierarchyPath, propertiesPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	if outDir != "" {
		cfg.Export.OutDir = outDir
	}
	if cmd.Flags().Changed("strict") {
		cfg.Export.Strict = strict
	}
	if columns != "" {
		if _, err := modelsheet.ParseColumnMode(columns); err != nil {
			return err
		}
		cfg.Export.Columns = columns
	}
	name := modelName
	if name == "" {
		name = filepath.Base(hierarchyPath)
	}

	svc, err := newService(cmd.Context(), serviceDeps{}, "cli")
	if err != nil {
		return err
	}

	result, err := svc.ExportFiles(cmd.Context(), hierarchyPath, propertiesPath, name)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	printResult(cmd, result)
	return nil
}
