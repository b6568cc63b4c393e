/*
Package dsl provides a fluent builder for defining node types in Go code,
without definition files on disk.

It allows hosts to declare their built-in types using a type-safe builder
pattern instead of shipping a catalog directory. This is particularly
useful for embedded deployments, unit testing, and leveraging IDE
autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/scion"
		"github.com/aretw0/scion/pkg/dsl"
		"github.com/aretw0/scion/pkg/schema"
	)

	func main() {
		b := dsl.New()

		b.Node("core.echo").
			DisplayName("Echo").
			Description("Returns its input unchanged.").
			Group("transform").
			Version(1).
			Input("main").
			Output("main").
			Property(schema.Property{Name: "text", Type: "string"})

		v := b.Versioned("core.httpRequest")
		v.Default(2)
		v.Version(1).
			DisplayName("HTTP Request")
		v.Version(2).
			DisplayName("HTTP Request").
			Credential("serviceApi", true).
			Property(schema.Property{Name: "url", Type: "string", Required: true})

		constructors, err := b.Build()
		if err != nil {
			panic(err)
		}

		resolver, err := scion.New(".", scion.WithInjectedNodes(constructors))
		// ...
		_ = resolver
		_ = err
	}
*/
package dsl
