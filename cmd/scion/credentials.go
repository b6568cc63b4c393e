package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/scion"
	"github.com/aretw0/scion/internal/presentation/graph"
	"github.com/aretw0/scion/internal/presentation/tui"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/spf13/cobra"
)

var credentialsCmd = &cobra.Command{
	Use:     "credentials",
	Aliases: []string{"creds"},
	Short:   "Inspect credential types and their inheritance",
	Long:    `Load credential type definitions from the catalog, walk their inheritance and render merged property schemas.`,
}

var credentialsParentsCmd = &cobra.Command{
	Use:   "parents <type>",
	Short: "List the inheritance chain of a credential type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		credType := args[0]

		resolver, err := newCredentialResolver(cmd)
		if err != nil {
			fmt.Printf("Error initializing scion: %v\n", err)
			os.Exit(1)
		}

		// Loading first folds the type's own extends into the known
		// index. A type only the index knows about is still fine.
		if _, err := resolver.GetCredentialType(credType); err != nil {
			var unknown *domain.UnknownCredentialTypeError
			if !errors.As(err, &unknown) {
				fmt.Printf("Error loading '%s': %v\n", credType, err)
				os.Exit(1)
			}
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Print(graph.GenerateMermaid(resolver.Credentials().GetKnownCredentials(), credType))
			return
		}

		parents, err := resolver.Credentials().GetParentTypes(credType)
		if err != nil {
			fmt.Printf("Error walking parents of '%s': %v\n", credType, err)
			os.Exit(1)
		}

		if len(parents) == 0 {
			fmt.Printf("%s extends nothing\n", credType)
			return
		}
		fmt.Printf("%s extends %s\n", credType, strings.Join(parents, ", "))
	},
}

var credentialsPropertiesCmd = &cobra.Command{
	Use:   "properties <type>",
	Short: "Render the merged property schema of a credential type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		credType := args[0]

		resolver, err := newCredentialResolver(cmd)
		if err != nil {
			fmt.Printf("Error initializing scion: %v\n", err)
			os.Exit(1)
		}

		props, err := resolver.GetCredentialsProperties(credType)
		if err != nil {
			fmt.Printf("Error resolving properties of '%s': %v\n", credType, err)
			os.Exit(1)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", credType)
		if supported := resolver.Credentials().GetSupportedNodes(credType); len(supported) > 0 {
			fmt.Fprintf(&b, "Used by: %s\n\n", strings.Join(supported, ", "))
		}
		writePropertyTable(&b, props)

		render := tui.NewRenderer()
		out, err := render(b.String())
		if err != nil {
			fmt.Printf("Error rendering schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	credentialsCmd.PersistentFlags().String("known", "", "YAML index of known credential types")
	credentialsParentsCmd.Flags().Bool("mermaid", false, "Output the inheritance graph as a Mermaid diagram")

	rootCmd.AddCommand(credentialsCmd)
	credentialsCmd.AddCommand(credentialsParentsCmd)
	credentialsCmd.AddCommand(credentialsPropertiesCmd)
}

func newCredentialResolver(cmd *cobra.Command) (*scion.Resolver, error) {
	var opts []scion.Option
	if index, _ := cmd.Flags().GetString("known"); index != "" {
		opts = append(opts, scion.WithKnownCredentialIndex(index))
	}
	return newResolver(cmd, opts...)
}
