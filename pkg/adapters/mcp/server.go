// Package mcp exposes the resolver catalog as an MCP server, so agents
// can discover and inspect node and credential types over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/scion"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/schema"
)

// Catalog defines the resolver surface required by the MCP server.
// *scion.Resolver implements it.
type Catalog interface {
	LoadNodeType(identifier string) error
	GetNodeTypeVersion(identifier string, version float64) (*domain.NodeType, error)
	GetKnownNodeTypes() map[string]domain.KnownNodeType
	GetKnownCredentials() map[string]domain.KnownCredential
	GetCredentialType(credType string) (*domain.CredentialType, error)
	GetCredentialsProperties(credType string) ([]schema.Property, error)
	GetParentTypes(credType string) ([]string, error)
}

// LoadResponse reports where a loaded node type came from.
type LoadResponse struct {
	Identifier string `json:"identifier" jsonschema_description:"The loaded node type identifier"`
	ClassName  string `json:"class_name" jsonschema_description:"The definition class backing the type"`
	SourcePath string `json:"source_path,omitempty" jsonschema_description:"The definition file the type was loaded from, empty for injected types"`
}

// DescribeResponse carries a resolved node type description.
type DescribeResponse struct {
	Description domain.NodeDescription `json:"description" jsonschema_description:"The full node type description"`
}

// PropertiesResponse carries the merged property schema of a credential
// type.
type PropertiesResponse struct {
	Type       string            `json:"type" jsonschema_description:"The credential type name"`
	Properties []schema.Property `json:"properties" jsonschema_description:"Merged properties, inherited ones first"`
}

// ParentsResponse carries the inheritance chain of a credential type.
type ParentsResponse struct {
	Type    string   `json:"type" jsonschema_description:"The credential type name"`
	Parents []string `json:"parents" jsonschema_description:"Parent types, nearest first"`
}

// Server wraps a resolver catalog and exposes it as an MCP Server.
type Server struct {
	catalog   Catalog
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(catalog Catalog) *Server {
	s := &Server{
		catalog:   catalog,
		mcpServer: server.NewMCPServer("scion-mcp", strings.TrimSpace(scion.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: load_node_type
	loadTool := mcp.NewTool("load_node_type",
		mcp.WithDescription("Load a node type from the definition catalog so it becomes resolvable."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Full type identifier, e.g. core.httpRequest")),
		mcp.WithOutputSchema[LoadResponse](),
	)
	s.mcpServer.AddTool(loadTool, mcp.NewStructuredToolHandler(s.handleLoadNodeType))

	// TOOL: describe_node_type
	describeTool := mcp.NewTool("describe_node_type",
		mcp.WithDescription("Resolve a node type and return its full description: properties, credentials, wiring."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Full type identifier, e.g. core.httpRequest")),
		mcp.WithString("version", mcp.Description("Version to resolve (optional, defaults to the type's default version)")),
		mcp.WithOutputSchema[DescribeResponse](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribeNodeType))

	// TOOL: credential_properties
	propertiesTool := mcp.NewTool("credential_properties",
		mcp.WithDescription("Return the merged property schema of a credential type, inheritance included."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Credential type name, e.g. slackOAuth2Api")),
		mcp.WithOutputSchema[PropertiesResponse](),
	)
	s.mcpServer.AddTool(propertiesTool, mcp.NewStructuredToolHandler(s.handleCredentialProperties))

	// TOOL: credential_parents
	parentsTool := mcp.NewTool("credential_parents",
		mcp.WithDescription("Return the inheritance chain of a credential type, nearest parent first."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Credential type name, e.g. slackOAuth2Api")),
		mcp.WithOutputSchema[ParentsResponse](),
	)
	s.mcpServer.AddTool(parentsTool, mcp.NewStructuredToolHandler(s.handleCredentialParents))

	// TOOL: list_node_types
	s.mcpServer.AddTool(mcp.NewTool("list_node_types",
		mcp.WithDescription("List every node type known to the resolver."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.catalog.GetKnownNodeTypes())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleLoadNodeType(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (LoadResponse, error) {
	identifier, _ := args["identifier"].(string)
	if identifier == "" {
		return LoadResponse{}, fmt.Errorf("identifier is required")
	}

	if err := s.catalog.LoadNodeType(identifier); err != nil {
		return LoadResponse{}, fmt.Errorf("load failed: %w", err)
	}

	known := s.catalog.GetKnownNodeTypes()[identifier]
	return LoadResponse{
		Identifier: identifier,
		ClassName:  known.ClassName,
		SourcePath: known.SourcePath,
	}, nil
}

func (s *Server) handleDescribeNodeType(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DescribeResponse, error) {
	identifier, _ := args["identifier"].(string)
	if identifier == "" {
		return DescribeResponse{}, fmt.Errorf("identifier is required")
	}

	version := 0.0
	if raw, ok := args["version"].(string); ok && raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return DescribeResponse{}, fmt.Errorf("invalid version %q", raw)
		}
		version = parsed
	}

	if err := s.catalog.LoadNodeType(identifier); err != nil {
		return DescribeResponse{}, fmt.Errorf("load failed: %w", err)
	}

	nodeType, err := s.catalog.GetNodeTypeVersion(identifier, version)
	if err != nil {
		return DescribeResponse{}, fmt.Errorf("describe failed: %w", err)
	}

	return DescribeResponse{Description: nodeType.Description}, nil
}

func (s *Server) handleCredentialProperties(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PropertiesResponse, error) {
	credType, _ := args["type"].(string)
	if credType == "" {
		return PropertiesResponse{}, fmt.Errorf("type is required")
	}

	props, err := s.catalog.GetCredentialsProperties(credType)
	if err != nil {
		return PropertiesResponse{}, fmt.Errorf("properties failed: %w", err)
	}

	return PropertiesResponse{Type: credType, Properties: props}, nil
}

func (s *Server) handleCredentialParents(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ParentsResponse, error) {
	credType, _ := args["type"].(string)
	if credType == "" {
		return ParentsResponse{}, fmt.Errorf("type is required")
	}

	// Loading first folds the type's own extends into the known index.
	// A type only the index knows about is still fine.
	if _, err := s.catalog.GetCredentialType(credType); err != nil {
		var unknown *domain.UnknownCredentialTypeError
		if !errors.As(err, &unknown) {
			return ParentsResponse{}, fmt.Errorf("parents failed: %w", err)
		}
	}

	parents, err := s.catalog.GetParentTypes(credType)
	if err != nil {
		return ParentsResponse{}, fmt.Errorf("parents failed: %w", err)
	}
	if parents == nil {
		parents = []string{}
	}

	return ParentsResponse{Type: credType, Parents: parents}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: scion://catalog
	s.mcpServer.AddResource(mcp.NewResource("scion://catalog", "Known Catalog Index",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		index := map[string]any{
			"node_types":       s.catalog.GetKnownNodeTypes(),
			"credential_types": s.catalog.GetKnownCredentials(),
		}
		jsonBytes, err := json.Marshal(index)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog index: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "scion://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
