package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/scion"
	"github.com/aretw0/scion/internal/logging"
	"github.com/aretw0/scion/pkg/adapters/file"
	httpAdapter "github.com/aretw0/scion/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog HTTP server",
	Long:  `Starts the resolver in server mode, exposing the type catalog as a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		base, _ := cmd.Flags().GetString("base")
		port, _ := cmd.Flags().GetString("port")
		credDir, _ := cmd.Flags().GetString("credentials")
		key, _ := cmd.Flags().GetString("key")
		debug, _ := cmd.Flags().GetBool("debug")

		var opts []scion.Option
		if credDir != "" {
			opts = append(opts, scion.WithSource(file.New(credDir)))
		}
		if key != "" {
			opts = append(opts, scion.WithEncryptionKey(key))
		}

		resolver, err := newResolver(cmd, opts...)
		if err != nil {
			fmt.Printf("Error initializing resolver: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(resolver,
			httpAdapter.WithDecrypter(resolver.Helper()),
			httpAdapter.WithLogger(logging.FromDebug(debug)),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Scion Server on %s\n", srv.Addr)
			fmt.Printf("Serving catalog from: %s\n", base)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Scion Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("credentials", "", "Directory holding stored credential records")
	serveCmd.Flags().String("key", "", "Encryption passphrase for stored credentials")
}
