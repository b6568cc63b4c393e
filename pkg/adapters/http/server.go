// Package http serves the resolver catalog over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/scion"
	"github.com/aretw0/scion/pkg/credentials"
	"github.com/aretw0/scion/pkg/domain"
	"github.com/aretw0/scion/pkg/observability"
	"github.com/aretw0/scion/pkg/schema"
)

// Catalog is the resolver surface the API serves. *scion.Resolver
// implements it.
type Catalog interface {
	LoadNodeType(identifier string) error
	GetNodeTypeVersion(identifier string, version float64) (*domain.NodeType, error)
	GetKnownNodeTypes() map[string]domain.KnownNodeType
	GetKnownCredentials() map[string]domain.KnownCredential
	GetCredentialType(credType string) (*domain.CredentialType, error)
	GetCredentialsProperties(credType string) ([]schema.Property, error)
	GetParentTypes(credType string) ([]string, error)
}

// Decrypter materializes stored credentials for the record endpoint.
// ports.CredentialHelper satisfies it.
type Decrypter interface {
	GetDecrypted(ctx context.Context, ref domain.CredentialReference, credType string, mode domain.ExecutionMode, opts domain.DecryptOptions) (map[string]any, error)
}

// Server answers catalog queries over HTTP.
type Server struct {
	catalog   Catalog
	decrypter Decrypter
	redactor  *credentials.Redactor
	metrics   *observability.Metrics
	log       *slog.Logger
}

// Option configures the handler returned by NewHandler.
type Option func(*Server)

// WithDecrypter enables the GET /credentials/{id} endpoint. Responses
// are always redacted.
func WithDecrypter(d Decrypter) Option {
	return func(s *Server) { s.decrypter = d }
}

// WithRedactor replaces the default redactor used for credential
// responses.
func WithRedactor(r *credentials.Redactor) Option {
	return func(s *Server) { s.redactor = r }
}

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewHandler creates the HTTP handler for a resolver catalog.
func NewHandler(catalog Catalog, opts ...Option) http.Handler {
	server := &Server{
		catalog:  catalog,
		redactor: credentials.NewRedactor(),
		metrics:  observability.NewMetrics(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(server.metrics.Middleware)

	r.Get("/health", server.getHealth)
	r.Get("/info", server.getInfo)
	r.Handle("/metrics", server.metrics.Handler())

	r.Get("/node-types", server.listNodeTypes)
	r.Post("/node-types/load", server.loadNodeTypes)
	r.Get("/node-types/{identifier}", server.describeNodeType)

	r.Get("/credential-types", server.listCredentialTypes)
	r.Get("/credential-types/{credentialType}/properties", server.getCredentialProperties)
	r.Get("/credential-types/{credentialType}/parents", server.getCredentialParents)

	if server.decrypter != nil {
		r.Get("/credentials/{id}", server.getCredential)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getHealth handles the GET /health request.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getInfo handles the GET /info request.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":     "scion-http",
		"version": strings.TrimSpace(scion.Version),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// listNodeTypes handles the GET /node-types request.
func (s *Server) listNodeTypes(w http.ResponseWriter, r *http.Request) {
	known := s.catalog.GetKnownNodeTypes()
	s.writeJSON(w, map[string]any{"count": len(known), "node_types": known})
}

// loadNodeTypes handles the POST /node-types/load request.
func (s *Server) loadNodeTypes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifiers []string `json:"identifiers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.log.Warn("Load: invalid request body", "error", err)
		return
	}
	if len(body.Identifiers) == 0 {
		http.Error(w, "Missing identifiers", http.StatusBadRequest)
		return
	}

	for _, identifier := range body.Identifiers {
		if err := s.catalog.LoadNodeType(identifier); err != nil {
			s.metrics.RecordLoad("node", "error")
			http.Error(w, fmt.Sprintf("Load error: %v", err), statusFor(err))
			s.log.Warn("Load failed", "identifier", identifier, "error", err)
			return
		}
		s.metrics.RecordLoad("node", "ok")
	}

	s.writeJSON(w, map[string]any{"loaded": body.Identifiers})
}

// describeNodeType handles the GET /node-types/{identifier} request.
// The version query parameter selects a version; absent means the
// default version.
func (s *Server) describeNodeType(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	version := 0.0
	if raw := r.URL.Query().Get("version"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid version %q", raw), http.StatusBadRequest)
			return
		}
		version = parsed
	}

	if err := s.catalog.LoadNodeType(identifier); err != nil {
		s.metrics.RecordLoad("node", "error")
		http.Error(w, fmt.Sprintf("Load error: %v", err), statusFor(err))
		s.log.Warn("Describe: load failed", "identifier", identifier, "error", err)
		return
	}
	s.metrics.RecordLoad("node", "ok")

	nodeType, err := s.catalog.GetNodeTypeVersion(identifier, version)
	if err != nil {
		http.Error(w, fmt.Sprintf("Describe error: %v", err), statusFor(err))
		s.log.Warn("Describe failed", "identifier", identifier, "version", version, "error", err)
		return
	}

	s.writeJSON(w, nodeType.Description)
}

// listCredentialTypes handles the GET /credential-types request.
func (s *Server) listCredentialTypes(w http.ResponseWriter, r *http.Request) {
	known := s.catalog.GetKnownCredentials()
	s.writeJSON(w, map[string]any{"count": len(known), "credential_types": known})
}

// getCredentialProperties handles the GET
// /credential-types/{credentialType}/properties request.
func (s *Server) getCredentialProperties(w http.ResponseWriter, r *http.Request) {
	credType := chi.URLParam(r, "credentialType")

	props, err := s.catalog.GetCredentialsProperties(credType)
	if err != nil {
		s.metrics.RecordLoad("credential", "error")
		http.Error(w, fmt.Sprintf("Properties error: %v", err), statusFor(err))
		s.log.Warn("Properties failed", "type", credType, "error", err)
		return
	}
	s.metrics.RecordLoad("credential", "ok")

	s.writeJSON(w, map[string]any{"type": credType, "properties": props})
}

// getCredentialParents handles the GET
// /credential-types/{credentialType}/parents request.
func (s *Server) getCredentialParents(w http.ResponseWriter, r *http.Request) {
	credType := chi.URLParam(r, "credentialType")

	// Loading first folds the type's own extends into the known index.
	// A type only the index knows about is still fine.
	if _, err := s.catalog.GetCredentialType(credType); err != nil {
		var unknown *domain.UnknownCredentialTypeError
		if !errors.As(err, &unknown) {
			http.Error(w, fmt.Sprintf("Parents error: %v", err), statusFor(err))
			s.log.Warn("Parents: load failed", "type", credType, "error", err)
			return
		}
	}

	parents, err := s.catalog.GetParentTypes(credType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Parents error: %v", err), statusFor(err))
		s.log.Warn("Parents failed", "type", credType, "error", err)
		return
	}
	if parents == nil {
		parents = []string{}
	}

	s.writeJSON(w, map[string]any{"type": credType, "parents": parents})
}

// getCredential handles the GET /credentials/{id} request. The type
// query parameter names the credential type of the stored record.
func (s *Server) getCredential(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	credType := r.URL.Query().Get("type")
	if credType == "" {
		http.Error(w, "Missing type query parameter", http.StatusBadRequest)
		return
	}

	ref := domain.CredentialReference{ID: id, Type: credType}
	data, err := s.decrypter.GetDecrypted(r.Context(), ref, credType, domain.ModeInternal, domain.DecryptOptions{Raw: true})
	if err != nil {
		http.Error(w, fmt.Sprintf("Credential error: %v", err), statusFor(err))
		s.log.Warn("Credential read failed", "id", id, "type", credType, "error", err)
		return
	}

	props, err := s.catalog.GetCredentialsProperties(credType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Credential error: %v", err), statusFor(err))
		s.log.Warn("Credential read: properties failed", "type", credType, "error", err)
		return
	}

	resp := map[string]any{
		"id":   id,
		"type": credType,
		"data": s.redactor.Redact(props, data),
	}
	s.writeJSON(w, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Response encode failed", "error", err)
	}
}

// statusFor maps resolver errors to HTTP status codes. Anything the
// catalog cannot find is a 404; malformed references are a 400.
func statusFor(err error) int {
	var missingID *domain.MissingIDError
	if errors.As(err, &missingID) {
		return http.StatusBadRequest
	}

	var notLoaded *domain.NotLoadedError
	var moduleNotFound *domain.ModuleNotFoundError
	var unknownCred *domain.UnknownCredentialTypeError
	if errors.As(err, &notLoaded) || errors.As(err, &moduleNotFound) ||
		errors.As(err, &unknownCred) || errors.Is(err, domain.ErrCredentialNotFound) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
