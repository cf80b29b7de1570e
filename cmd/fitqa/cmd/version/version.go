package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "v0.1.0"

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fitqa",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version)
		return nil
	},
}
