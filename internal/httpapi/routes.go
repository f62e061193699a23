package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/hub"
	"github.com/DoyleJ11/squad-randomizer/internal/ws"
)

type Server struct {
	Hub      *hub.Hub
	Catalog  *catalog.Catalog
	Registry *prometheus.Registry // nil disables /metrics
	Logger   *zap.Logger
}

func SetupRoutes(s Server) http.Handler {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := s.Hub

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log.Named("ws")))
	if s.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(accessLog(log.Named("http")))

		r.Get("/catalog", GetCatalog(s.Catalog))
		r.Post("/lobbies", CreateLobby(h, log))
		r.Route("/lobbies/{code}", func(r chi.Router) {
			r.Get("/", withLobby(h, GetLobby))
			r.Post("/commands", withLobby(h, PostCommand))
			r.Post("/randomize", withLobby(h, Randomize(s.Catalog)))
			r.Get("/result", withLobby(h, GetResult(s.Catalog)))
			r.Post("/weapon", withLobby(h, RandomizeWeapon))
			r.Get("/settings", withLobby(h, ExportSettings))
			r.Put("/settings", withLobby(h, ImportSettings))
			r.Get("/history.xlsx", withLobby(h, ExportHistory))
		})
	})
	return r
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())))
		})
	}
}
