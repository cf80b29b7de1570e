package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fitqa/cmd/fitqa/cmd/ask"
	"fitqa/cmd/fitqa/cmd/export"
	"fitqa/cmd/fitqa/cmd/ingest"
	"fitqa/cmd/fitqa/cmd/serve"
	"fitqa/cmd/fitqa/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fitqa",
	Short: "Ask fitness questions against a corpus of video transcripts",
	Long: `fitqa answers natural-language fitness questions by retrieving the most
relevant transcript segments from an ingested video corpus and asking a
language model to ground its answer in them.

- ingest builds a segment store from a video list
- ask retrieves context and synthesizes an answer for one question
- serve runs the demo web UI on top of an existing store`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ingest.Cmd)
	rootCmd.AddCommand(ask.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
