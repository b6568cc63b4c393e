package scion_test

import (
	"fmt"
	"log"

	"github.com/aretw0/scion"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/dsl"
	"github.com/aretw0/scion/pkg/schema"
)

// ExampleNew_injected demonstrates serving node types without disk
// discovery. This is useful for testing, embedded catalogs, or when
// node types are compiled into the host binary.
func ExampleNew_injected() {
	// 1. Define a node type in code.
	b := dsl.New()
	b.Node("core.echo").
		DisplayName("Echo").
		Version(1).
		Property(schema.Property{Name: "text", Type: "string", Default: "hello"})

	constructors, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize the resolver with the injected constructors.
	// The base directory stays empty because nothing loads from disk.
	resolver, err := scion.New("", scion.WithInjectedNodes(constructors))
	if err != nil {
		log.Fatal(err)
	}

	// 3. Load and look up like any discovered type.
	if err := resolver.LoadNodeType("core.echo"); err != nil {
		log.Fatal(err)
	}
	kind, err := resolver.GetNodeType("core.echo")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Display name:", kind.Describe().DisplayName)
	fmt.Println("Default text:", kind.Describe().Properties[0].Default)
	// Output:
	// Display name: Echo
	// Default text: hello
}

// ExampleResolver_Credentials walks a credential inheritance chain
// seeded from a known-type index, without loading any definition
// module.
func ExampleResolver_Credentials() {
	resolver, err := scion.New("./catalog", scion.WithKnownCredentials(map[string]domain.KnownCredential{
		"slackOAuth2Api":  {Extends: []string{"oAuth2Api"}},
		"googleOAuth2Api": {Extends: []string{"oAuth2Api"}},
	}))
	if err != nil {
		log.Fatal(err)
	}

	parents, err := resolver.Credentials().GetParentTypes("slackOAuth2Api")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Parents:", parents)
	// Output:
	// Parents: [oAuth2Api]
}
