package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var objectBucket string

func newObjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Download, delete or upload objects in the object store",
	}
	cmd.PersistentFlags().StringVar(&objectBucket, "bucket", "", "Bucket name")
	_ = cmd.MarkPersistentFlagRequired("bucket")

	cmd.AddCommand(&cobra.Command{
		Use:   "download [object]",
		Short: "Download an object into the output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd.Context(), serviceDeps{store: true}, "cli")
			if err != nil {
				return err
			}
			path, err := svc.Download(cmd.Context(), objectBucket, args[0])
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("wrote"), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [object]",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd.Context(), serviceDeps{store: true}, "cli")
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), objectBucket, args[0]); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("deleted"), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a local file under its base name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd.Context(), serviceDeps{store: true}, "cli")
			if err != nil {
				return err
			}
			if err := svc.Upload(cmd.Context(), objectBucket, args[0]); err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("uploaded"), args[0])
			return nil
		},
	})

	return cmd
}
