package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilnbuild/kiln"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kiln",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kiln version %s\n", kiln.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
