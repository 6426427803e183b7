package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxLogBytes    int
}

func NewRouter(api *API, cfg RouterConfig) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(api.logger, cfg.MaxLogBytes))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sets", func(r chi.Router) {
		r.Get("/", api.HandleListSets)
		r.Post("/", api.HandleImportSet)
		r.Post("/opentdb", api.HandleImportOpenTDB)
		r.Route("/{set_id}", func(r chi.Router) {
			r.Get("/", api.HandleGetSet)
			r.Delete("/", api.HandleDeleteSet)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", api.HandleCreateSession)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", api.HandleGetSession)
			r.Delete("/", api.HandleDeleteSession)
			r.Post("/select", api.HandleSelect)
			r.Post("/submit", api.HandleSubmit)
			r.Post("/advance", api.HandleAdvance)
			r.Post("/goto", api.HandleGoTo)
			r.Post("/flag", api.HandleFlag)
			r.Post("/finish", api.HandleFinish)
			r.Post("/restart", api.HandleRestart)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r
}
