package ask

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitqa/internal/app"
	"fitqa/internal/app/logging"
	"fitqa/internal/app/storage"
	"fitqa/internal/config"
)

var (
	storePath   string
	backend     string
	topK        int
	modelName   string
	temperature float64
	configPath  string
)

func init() {
	Cmd.Flags().StringVarP(&storePath, "store", "d", "",
		"Store path to query (file for flat, directory for indexed, DSN for postgres)")
	Cmd.Flags().StringVarP(&backend, "backend", "b", "",
		"Store backend: flat, indexed or postgres (default from config)")
	Cmd.Flags().IntVarP(&topK, "results", "k", 0,
		"Number of transcript segments to retrieve as context")
	Cmd.Flags().StringVarP(&modelName, "model", "m", "",
		"Chat model used to synthesize the answer")
	Cmd.Flags().Float64VarP(&temperature, "temperature", "t", config.DefaultLLMTemperature,
		"Sampling temperature for the chat model")
	Cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Optional YAML config file")

	Cmd.MarkFlagRequired("store")
}

// Cmd represents the ask command
var Cmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question against an ingested store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := args[0]

		cfg, err := config.LoadAppConfig(configPath)
		if err != nil {
			return err
		}
		if backend == "" {
			backend = cfg.Store.Backend
		}
		if !cmd.Flags().Changed("temperature") {
			temperature = cfg.LLM.Temperature
		}

		keys, err := config.GetAPIKeys()
		if err != nil {
			return err
		}
		if err := config.RequireAPIKeys(keys); err != nil {
			return err
		}

		logger := logging.MustNewLogger(false)
		defer logger.Sync()

		store, err := storage.Open(backend, storePath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		service, err := app.InitializeAskService(ctx, cfg, keys, store, logger)
		if err != nil {
			store.Close()
			return err
		}
		defer service.Close()

		answer, err := service.AskWith(ctx, question, topK, modelName, temperature)
		if err != nil {
			return err
		}

		fmt.Println(answer)
		return nil
	},
}
