package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/xlsx"
)

var (
	asJSON bool
	pretty bool
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "Summarise the sheets of an exported workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	sheets, err := xlsx.ReadSummary(inputPath)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		var data []byte
		if pretty {
			data, err = json.MarshalIndent(sheets, "", "  ")
		} else {
			data, err = json.Marshal(sheets)
		}
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, s := range sheets {
		fmt.Fprintf(out, "%s\t%d rows\t%s\t%s\n", s.Name, s.Rows, s.DataRange, strings.Join(s.Header, ", "))
	}
	return nil
}
