package main

import (
	"fmt"
	"os"

	"github.com/aretw0/scion"
	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scion",
	Short: "Scion resolves workflow node and credential types on demand",
	Long: `Scion loads node and credential type definitions from a catalog of
single-file Go modules evaluated at runtime, and materializes stored
credentials through decryption, overwrites and schema defaults.`,
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(scion.Version)
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("base", ".", "Directory containing the definition catalog")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// newResolver builds a Resolver from the persistent flags plus any
// command-specific options.
func newResolver(cmd *cobra.Command, opts ...scion.Option) (*scion.Resolver, error) {
	base, _ := cmd.Flags().GetString("base")
	debug, _ := cmd.Flags().GetBool("debug")

	opts = append(opts, scion.WithLogger(logging.FromDebug(debug)))
	return scion.New(base, opts...)
}
