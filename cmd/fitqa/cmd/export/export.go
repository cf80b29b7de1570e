package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appexport "fitqa/internal/app/export"
	"fitqa/internal/app/storage"
)

var (
	storePath  string
	backend    string
	outputPath string
)

func init() {
	Cmd.Flags().StringVarP(&storePath, "store", "d", "",
		"Store path to export (file for flat, directory for indexed, DSN for postgres)")
	Cmd.Flags().StringVarP(&backend, "backend", "b", "",
		"Store backend: flat, indexed or postgres")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "segments.xlsx",
		"Output xlsx path")

	Cmd.MarkFlagRequired("store")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a store's segments to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(backend, storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		segments, err := store.All(context.Background())
		if err != nil {
			return err
		}

		if err := appexport.ToExcel(segments, outputPath); err != nil {
			return err
		}

		fmt.Printf("Exported %d segments to %s\n", len(segments), outputPath)
		return nil
	},
}
