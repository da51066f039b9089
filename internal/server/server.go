package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"hotel-erp/internal/app"
	"hotel-erp/internal/types"
)

const shutdownTimeout = 10 * time.Second

// Backend is the slice of app.Service the HTTP API serves.
type Backend interface {
	GetRecords(ctx context.Context, req app.GetRecordsRequest) (app.RecordsResult, error)
	CreateRecord(ctx context.Context, req app.WriteRecordRequest) (app.WriteRecordResult, error)
	UpdateRecord(ctx context.Context, req app.WriteRecordRequest) (app.WriteRecordResult, error)
	DeleteRecord(ctx context.Context, req app.WriteRecordRequest) (app.WriteRecordResult, error)
	Check(ctx context.Context, req app.CheckRequest) (types.SetupReport, error)
	ListRooms(ctx context.Context, req app.ListRoomsRequest) (app.RoomsResult, error)
	SetRoomStatus(ctx context.Context, req app.SetRoomStatusRequest) (app.SetRoomStatusResult, error)
	BillingSummary(ctx context.Context) (types.BillingSummary, error)
	Login() error
	Logout() error
	SessionStatus() (app.SessionResult, error)
}

type Config struct {
	JWTSecret   string
	CORSOrigins []string
	Version     string
	Now         func() time.Time
}

type Server struct {
	backend Backend
	cfg     Config
	router  chi.Router
}

func New(backend Backend, cfg Config) (*Server, error) {
	if backend == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("server requires a backend")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("jwt secret is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	s := &Server{backend: backend, cfg: cfg}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(s.cfg.JWTSecret))
		r.Use(s.requireSession)
		r.Post("/logout", s.handleLogout)
		r.Get("/setup-check", s.handleSetupCheck)
		r.Route("/entities/{entity}", func(r chi.Router) {
			r.Get("/", s.handleGetRecords)
			r.Post("/", s.handleCreateRecord)
			r.Put("/{name}", s.handleUpdateRecord)
			r.Delete("/{name}", s.handleDeleteRecord)
		})
		r.Get("/rooms", s.handleListRooms)
		r.Put("/rooms/{number}/status", s.handleSetRoomStatus)
		r.Get("/billing/summary", s.handleBillingSummary)
	})
	return r
}

func (s *Server) allowedOrigins() []string {
	origins := make([]string, 0, len(s.cfg.CORSOrigins))
	for _, origin := range s.cfg.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"http://localhost:5173"}
	}
	return origins
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("http server failed").
			WithCause(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("http server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("http server shutdown failed").
				WithCause(err)
		}
		return nil
	}
}
