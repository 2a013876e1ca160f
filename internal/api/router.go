package api

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpHandlers "github.com/clinicalscribe/scribe-service/internal/api/http"
	"github.com/clinicalscribe/scribe-service/internal/api/recovery"
	"github.com/clinicalscribe/scribe-service/internal/auth"
	"github.com/clinicalscribe/scribe-service/internal/core/note"
	"github.com/clinicalscribe/scribe-service/internal/llm"
	"github.com/clinicalscribe/scribe-service/internal/services"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// Deps carries everything the router wires together. The caller owns the
// store and streamer lifecycles.
type Deps struct {
	Store      store.Store
	Authorizer auth.Authorizer
	Streamer   llm.Streamer
	Policy     note.Policy
	Timeout    time.Duration
	Log        zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	guard := auth.NewGuard(deps.Store)
	driver := llm.NewDriver(deps.Streamer)
	clientSvc := services.NewClientService(deps.Store, guard)
	transcriptSvc := services.NewTranscriptService(deps.Store, guard, deps.Log)
	noteSvc := services.NewNoteService(deps.Store, guard, driver, deps.Policy, deps.Timeout, deps.Log)

	// Handlers
	var pinger store.HealthPinger
	if p, ok := deps.Store.(store.HealthPinger); ok {
		pinger = p
	}
	healthHandler := httpHandlers.NewHealthHandler(pinger)
	clientHandler := httpHandlers.NewClientHandler(clientSvc)
	transcriptHandler := httpHandlers.NewTranscriptHandler(transcriptSvc)
	noteHandler := httpHandlers.NewNoteHandler(noteSvc)

	// Unauthenticated endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Authenticated API
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(AuthMiddleware(deps.Authorizer))

	// Client endpoints
	authed.HandleFunc("/clients", clientHandler.CreateClient).Methods("POST")
	authed.HandleFunc("/clients", clientHandler.ListClients).Methods("GET")
	authed.HandleFunc("/clients/{clientId:[0-9a-fA-F-]{36}}", clientHandler.GetClient).Methods("GET")
	authed.HandleFunc("/clients/{clientId:[0-9a-fA-F-]{36}}", clientHandler.UpdateClient).Methods("PUT")

	// Transcript endpoints
	authed.HandleFunc("/clients/{clientId:[0-9a-fA-F-]{36}}/transcripts", transcriptHandler.CreateTranscript).Methods("POST")
	authed.HandleFunc("/clients/{clientId:[0-9a-fA-F-]{36}}/transcripts", transcriptHandler.ListTranscripts).Methods("GET")
	authed.HandleFunc("/clients/{clientId:[0-9a-fA-F-]{36}}/transcripts/search", transcriptHandler.SearchTranscripts).Methods("GET")

	// Note endpoints
	authed.HandleFunc("/clients/{clientId:[0-9a-fA-F-]{36}}/notes", noteHandler.GenerateNote).Methods("POST")
	authed.HandleFunc("/notes/{noteId:[0-9a-fA-F-]{36}}", noteHandler.GetNote).Methods("GET")
	authed.HandleFunc("/notes/{noteId:[0-9a-fA-F-]{36}}/versions", noteHandler.ListVersions).Methods("GET")
	authed.HandleFunc("/notes/{noteId:[0-9a-fA-F-]{36}}/versions", noteHandler.AppendVersion).Methods("POST")

	return router
}
