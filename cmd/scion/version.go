package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/scion"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scion",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scion version %s\n", strings.TrimSpace(scion.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
