package ingest

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitqa/internal/app"
	"fitqa/internal/app/etl"
	"fitqa/internal/app/logging"
	"fitqa/internal/app/storage"
	"fitqa/internal/app/storage/segment"
	"fitqa/internal/config"
)

var (
	sourcesPath string
	storePath   string
	backend     string
	windowSize  int
	overlap     int
	reset       bool
	configPath  string
)

func init() {
	Cmd.Flags().StringVarP(&sourcesPath, "sources", "s", "",
		"Path to the videos JSON file, a list of {id, title} objects")
	Cmd.Flags().StringVarP(&storePath, "store", "d", "",
		"Target store path (file for flat, directory for indexed, DSN for postgres)")
	Cmd.Flags().StringVarP(&backend, "backend", "b", "",
		"Store backend: flat, indexed or postgres (default from config)")
	Cmd.Flags().IntVarP(&windowSize, "window-size", "w", 0,
		"Transcript entries per segment; 0 means one segment per line")
	Cmd.Flags().IntVarP(&overlap, "overlap", "o", 0,
		"Entries shared between consecutive segments, must be less than window-size")
	Cmd.Flags().BoolVar(&reset, "reset", false,
		"Replace an existing store at the target path")
	Cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Optional YAML config file")

	Cmd.MarkFlagRequired("sources")
	Cmd.MarkFlagRequired("store")
}

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build a segment store from a list of videos",
	Long: `Build a segment store from a list of videos

- Fetch the transcript for every video in the sources file
- Window it into overlapping segments and embed each segment
- Load the segments into the target store and write an ingestion log record

Videos whose transcript cannot be fetched are logged and skipped; the rest of
the batch continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAppConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("window-size") {
			cfg.Windowing.WindowSize = windowSize
		}
		if cmd.Flags().Changed("overlap") {
			cfg.Windowing.Overlap = overlap
		}
		if backend == "" {
			backend = cfg.Store.Backend
		}

		keys, err := config.GetAPIKeys()
		if err != nil {
			return err
		}
		if cfg.Embedding.Provider != "mock" {
			if err := config.RequireAPIKeys(keys); err != nil {
				return err
			}
		}

		logger := logging.MustNewLogger(false)
		defer logger.Sync()

		ctx := context.Background()
		pipeline, err := app.InitializePipeline(ctx, cfg, keys, logger)
		if err != nil {
			return err
		}

		info := pipeline.Provider().Info()

		store, err := storage.Initialize(backend, storePath, segment.Meta{
			Name:      config.DefaultCollection,
			Metric:    cfg.Store.Metric,
			Dimension: info.Dimension,
			Provider:  info.Model,
		}, reset)
		if err != nil {
			return err
		}
		defer store.Close()

		record, err := pipeline.Run(ctx, sourcesPath, storePath, store)
		if err != nil {
			return err
		}

		logPath := etl.RecordPath(storePath)
		if err := etl.WriteRecord(record, logPath); err != nil {
			return err
		}

		fmt.Printf("Ingested %d segments into %s (run %s, log at %s)\n",
			record.Segments, storePath, record.RunID, logPath)
		return nil
	},
}
