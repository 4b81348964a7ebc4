package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportFilter filterFlags
	exportSort   sortFlags
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the filtered records as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		sortSpec, err := exportSort.spec()
		if err != nil {
			return err
		}
		data, err := apiClient.Export(cmd.Context(), exportFilter.spec(), sortSpec)
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = fmt.Sprintf("qc-data-%s.xlsx", time.Now().Format("20060102-150405"))
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(data))
		return nil
	},
}

func init() {
	exportFilter.register(exportCmd)
	exportCmd.Flags().StringVar(&exportSort.key, "sort", "id", "sort key")
	exportCmd.Flags().StringVar(&exportSort.dir, "dir", "asc", "sort direction: asc or desc")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default qc-data-<timestamp>.xlsx)")
}
