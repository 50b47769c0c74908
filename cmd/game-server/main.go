package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/zerolog/log"

	"treason/internal/config"
	"treason/internal/logging"
	"treason/internal/match"
	"treason/internal/store"
	"treason/internal/ws"
)

func main() {
	app, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(app.Log); err != nil {
		panic(err)
	}
	cfg := app.Server

	var st *store.Store
	var rec match.Recorder
	if cfg.PostgresDSN != "" {
		st, err = store.New(context.Background(), cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
		rec = st
		log.Info().Msg("match recording enabled")
	} else {
		log.Info().Msg("no POSTGRES_DSN, running in memory only")
	}

	manager := match.NewManager(cfg.SeatCount, rec, log.Logger)
	wsServer := ws.NewServer(manager, log.Logger)

	r := newRouter(st, wsServer)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func newRouter(st *store.Store, wsServer *ws.Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Get("/public/matches", publicMatchesHandler(st))
		r.Get("/public/leaderboard", publicLeaderboardHandler(st))
	})

	// The upgrade is not wrapped by the request logger; a WebSocket is one
	// long request and would only log on close.
	r.Get("/ws", wsServer.HandleWS)
	return r
}

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestBody:     func(*http.Request) bool { return false },
			LogResponseBody:    func(*http.Request) bool { return false },
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				rc := chi.RouteContext(req.Context())
				route := req.URL.Path
				if rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
				}
			},
		},
	)
}
