package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/yoga-collections-be/internal/api/handlers"
	"github.com/isdelr/yoga-collections-be/internal/auth"
	"github.com/isdelr/yoga-collections-be/internal/services"
	"github.com/isdelr/yoga-collections-be/internal/websocket"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Hub         *websocket.Hub
	Users       services.UserServiceProvider
	Collections services.CollectionServiceProvider
	Events      services.EventServiceProvider
	Tokens      *auth.TokenIssuer
	DB          handlers.Pinger

	// Catalog is optional; the /poses routes are only mounted when it is set.
	Catalog handlers.PoseCatalog

	RequireOwner bool
	CORSOrigins  []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}))

	r.Use(d.Tokens.Identify)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(d.Users, d.Tokens)
	collectionHandler := handlers.NewCollectionHandler(d.Collections, d.RequireOwner)
	eventHandler := handlers.NewEventHandler(d.Events, d.RequireOwner)
	wsHandler := handlers.NewWebSocketHandler(d.Hub, d.RequireOwner, origins)
	healthHandler := handlers.NewHealthHandler(d.DB)

	r.Get("/healthz", healthHandler.Check)

	r.Post("/users", userHandler.Register)
	r.Post("/login", userHandler.Login)

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", collectionHandler.List)
		r.Post("/", collectionHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", collectionHandler.Get)
			r.Get("/items", collectionHandler.ListItems)
			r.Post("/items", collectionHandler.AddItem)
		})
	})

	r.Get("/events", eventHandler.GetRecent)
	r.Get("/ws", wsHandler.Serve)

	if d.Catalog != nil {
		poseHandler := handlers.NewPoseHandler(d.Catalog)
		r.Route("/poses", func(r chi.Router) {
			r.Get("/random", poseHandler.Random)
			r.Get("/search/{keyword}", poseHandler.Search)
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
