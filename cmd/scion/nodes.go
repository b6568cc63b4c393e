package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/scion/internal/presentation/tui"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/schema"
	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Inspect node types in the catalog",
	Long:  `Load node type definitions from the catalog and inspect how they resolved.`,
}

var nodesLoadCmd = &cobra.Command{
	Use:   "load <identifier>...",
	Short: "Load node types and list everything known afterwards",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolver, err := newResolver(cmd)
		if err != nil {
			fmt.Printf("Error initializing scion: %v\n", err)
			os.Exit(1)
		}

		for _, identifier := range args {
			if err := resolver.LoadNodeType(identifier); err != nil {
				fmt.Printf("Error loading '%s': %v\n", identifier, err)
				os.Exit(1)
			}
		}

		known := resolver.GetKnownNodeTypes()
		names := make([]string, 0, len(known))
		for name := range known {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("Known node types:")
		for _, name := range names {
			entry := known[name]
			if entry.SourcePath == "" {
				fmt.Printf("- %s (%s, injected)\n", name, entry.ClassName)
				continue
			}
			fmt.Printf("- %s (%s) %s\n", name, entry.ClassName, entry.SourcePath)
		}
	},
}

var nodesDescribeCmd = &cobra.Command{
	Use:   "describe <identifier>",
	Short: "Render the declared surface of one node type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		identifier := args[0]

		resolver, err := newResolver(cmd)
		if err != nil {
			fmt.Printf("Error initializing scion: %v\n", err)
			os.Exit(1)
		}

		if err := resolver.LoadNodeType(identifier); err != nil {
			fmt.Printf("Error loading '%s': %v\n", identifier, err)
			os.Exit(1)
		}

		version, _ := cmd.Flags().GetFloat64("version")
		nt, err := resolver.GetNodeTypeVersion(identifier, version)
		if err != nil {
			fmt.Printf("Error resolving version: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer()
		out, err := render(describeMarkdown(nt.Describe()))
		if err != nil {
			fmt.Printf("Error rendering description: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	nodesDescribeCmd.Flags().Float64("version", 0, "Version to describe (0 selects the type's default)")

	rootCmd.AddCommand(nodesCmd)
	nodesCmd.AddCommand(nodesLoadCmd)
	nodesCmd.AddCommand(nodesDescribeCmd)
}

func describeMarkdown(desc *domain.NodeDescription) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", desc.DisplayName)
	fmt.Fprintf(&b, "`%s`", desc.Name)
	if desc.Version > 0 {
		fmt.Fprintf(&b, " version %v", desc.Version)
	}
	b.WriteString("\n\n")

	if desc.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", desc.Description)
	}

	if len(desc.Credentials) > 0 {
		b.WriteString("## Credentials\n\n")
		for _, c := range desc.Credentials {
			if c.Required {
				fmt.Fprintf(&b, "- `%s` (required)\n", c.Name)
			} else {
				fmt.Fprintf(&b, "- `%s`\n", c.Name)
			}
		}
		b.WriteString("\n")
	}

	if len(desc.Properties) > 0 {
		b.WriteString("## Properties\n\n")
		writePropertyTable(&b, desc.Properties)
	}

	if desc.DocumentationURL != "" {
		fmt.Fprintf(&b, "\nDocs: %s\n", desc.DocumentationURL)
	}

	return b.String()
}

func writePropertyTable(b *strings.Builder, props []schema.Property) {
	b.WriteString("| Name | Type | Default | Required |\n")
	b.WriteString("|------|------|---------|----------|\n")
	for _, p := range props {
		kind := p.Type
		if kind == "" {
			kind = "json"
		}
		dflt := "-"
		if p.Default != nil {
			dflt = fmt.Sprintf("%v", p.Default)
		}
		required := ""
		if p.Required {
			required = "yes"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", p.Name, kind, dflt, required)
	}
}
