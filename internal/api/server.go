// Package api wires the HTTP surface: routing, middleware, and handlers.
package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/moviecrate/moviecrate/internal/auth"
	"github.com/moviecrate/moviecrate/internal/config"
	"github.com/moviecrate/moviecrate/internal/counter"
	"github.com/moviecrate/moviecrate/internal/httputil"
	"github.com/moviecrate/moviecrate/internal/models"
)

// UserStore is the slice of the user repository the handlers need.
type UserStore interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
}

// CollectionStore covers collection CRUD, always scoped to an owner.
type CollectionStore interface {
	Create(c *models.Collection) error
	ListByUser(userID uuid.UUID) ([]*models.Collection, error)
	GetByUUID(id, userID uuid.UUID) (*models.Collection, error)
	Update(c *models.Collection, replaceMovies bool) error
	Delete(id, userID uuid.UUID) error
}

// SharedCounter is the cross-process request counter.
type SharedCounter interface {
	Get(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
	Reset(ctx context.Context) error
}

// Catalog fetches the upstream movie listing.
type Catalog interface {
	Movies(ctx context.Context) ([]byte, error)
}

type Server struct {
	config      *config.Config
	log         zerolog.Logger
	version     string
	tokens      *auth.TokenManager
	users       UserStore
	collections CollectionStore
	catalog     Catalog
	tally       *counter.Tally
	shared      SharedCounter
	router      *http.ServeMux
	handler     http.Handler

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewServer(cfg *config.Config, log zerolog.Logger, version string, tokens *auth.TokenManager, users UserStore, collections CollectionStore, catalog Catalog, shared SharedCounter) *Server {
	s := &Server{
		config:      cfg,
		log:         log,
		version:     version,
		tokens:      tokens,
		users:       users,
		collections: collections,
		catalog:     catalog,
		tally:       &counter.Tally{},
		shared:      shared,
		router:      http.NewServeMux(),
		limiters:    make(map[string]*rate.Limiter),
	}
	s.setupRoutes()
	s.handler = s.securityHeaders(s.corsMiddleware(s.logRequests(s.router)))
	return s
}

// ServeHTTP bumps the per-process tally before anything else so every
// request is counted, including rejected ones.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.tally.Inc()
	s.handler.ServeHTTP(w, r)
}

// Tally exposes the per-process counter for health reporting.
func (s *Server) Tally() *counter.Tally {
	return s.tally
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleOverview)
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.router.Handle("POST /register/{$}", s.rlAuth(http.HandlerFunc(s.handleRegister)))
	s.router.Handle("POST /login/{$}", s.rlAuth(http.HandlerFunc(s.handleLogin)))
	s.router.Handle("POST /token/refresh/{$}", s.rlAuth(http.HandlerFunc(s.handleTokenRefresh)))

	s.router.Handle("GET /movies/{$}", s.authMiddleware(http.HandlerFunc(s.handleListMovies)))

	s.router.Handle("GET /collection/{$}", s.authMiddleware(http.HandlerFunc(s.handleListCollections)))
	s.router.Handle("POST /collection/{$}", s.authMiddleware(http.HandlerFunc(s.handleCreateCollection)))
	s.router.Handle("GET /collection/{uuid}/{$}", s.authMiddleware(http.HandlerFunc(s.handleGetCollection)))
	s.router.Handle("PUT /collection/{uuid}/{$}", s.authMiddleware(http.HandlerFunc(s.handleUpdateCollection)))
	s.router.Handle("DELETE /collection/{uuid}/{$}", s.authMiddleware(http.HandlerFunc(s.handleDeleteCollection)))

	s.router.Handle("GET /request-count/{$}", s.authMiddleware(http.HandlerFunc(s.handleGetRequestCount)))
	s.router.Handle("POST /request-count/{$}", s.authMiddleware(http.HandlerFunc(s.handleIncrementRequestCount)))
	s.router.Handle("POST /request-count/reset/{$}", s.authMiddleware(http.HandlerFunc(s.handleResetRequestCount)))
}

type contextKey string

const userKey contextKey = "user"

// userContext is the authenticated identity attached to the request.
type userContext struct {
	ID       uuid.UUID
	Username string
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := s.tokens.Validate(tokenString, auth.TokenTypeAccess)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, userContext{
			ID:       claims.UserID,
			Username: claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func userFromContext(ctx context.Context) (userContext, bool) {
	u, ok := ctx.Value(userKey).(userContext)
	return u, ok
}

// rlAuth rate limits the credential endpoints per client IP. Sustained rate
// and burst come from AUTH_RATE_PER_SEC / AUTH_RATE_BURST.
func (s *Server) rlAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		s.mu.Lock()
		lim, ok := s.limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(s.config.AuthRatePerSec), s.config.AuthRateBurst)
			s.limiters[ip] = lim
		}
		s.mu.Unlock()

		if !lim.Allow() {
			httputil.WriteError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Msg("request")
		next.ServeHTTP(w, r)
	})
}
