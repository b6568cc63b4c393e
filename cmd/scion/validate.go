package main

import (
	"fmt"
	"os"

	"github.com/aretw0/scion/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the definition catalog for consistency",
	Long: `Loads every definition file under the catalog directory and reports
files that fail to load, misplaced definitions and broken credential
inheritance chains.`,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := runValidate(cmd)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog is valid! ✅ (%d node types, %d credential types)\n",
			report.NodeTypes, report.CredentialTypes)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) (validator.Report, error) {
	base, _ := cmd.Flags().GetString("base")

	resolver, err := newResolver(cmd)
	if err != nil {
		return validator.Report{}, fmt.Errorf("failed to init resolver: %w", err)
	}

	return validator.ValidateCatalog(resolver, base)
}
