package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build is set via ldflags at build time.
var Build = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("serchr", Build)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
