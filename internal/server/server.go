// Package server provides the HTTP REST API of the resume builder.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/oneclickresume/internal/assist"
	"github.com/jonathan/oneclickresume/internal/builder"
	"github.com/jonathan/oneclickresume/internal/config"
	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/export"
	"github.com/jonathan/oneclickresume/internal/llm"
	"github.com/jonathan/oneclickresume/internal/server/middleware"
	"github.com/jonathan/oneclickresume/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	resumes     ResumeStore
	sessions    builder.SessionStore
	exporter    *export.Exporter
	assist      *assist.Service
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	verbose     bool

	// closers release connections opened by New, in reverse order.
	closers []func()
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	RedisURL     string
	ChromePath   string
	ExportBucket string
	ExportPrefix string
	Verbose      bool
}

// Deps are the collaborators of a Server. NewWithDeps takes them ready-made
// so tests can substitute in-memory versions.
type Deps struct {
	Users      UserStore
	Resumes    ResumeStore
	Sessions   builder.SessionStore
	Passwords  *config.PasswordConfig
	JWT        *config.JWTConfig
	Rasterizer export.Rasterizer
	// Archive optionally receives a copy of every exported PDF.
	Archive export.Saver
	// LLM may be nil; assist requests then fail with 503.
	LLM       llm.Client
	RateLimit *ratelimit.Config
	Verbose   bool
}

// New creates a server backed by PostgreSQL, Redis (or process memory when
// no Redis URL is set), headless Chrome and, when configured, an S3 archive
// and an LLM provider.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers := []func(){database.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var sessions builder.SessionStore
	if cfg.RedisURL != "" {
		client, err := builder.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		sessions = builder.NewRedisStore(client, builder.DefaultSessionTTL)
	} else {
		log.Println("[server] REDIS_URL not set, keeping builder sessions in memory")
		sessions = builder.NewMemoryStore()
	}

	rasterizer := export.NewChromeRasterizer(cfg.Verbose)
	if cfg.ChromePath != "" {
		rasterizer.ExecPath = cfg.ChromePath
	}

	var archive export.Saver
	if cfg.ExportBucket != "" {
		s3Saver, err := export.NewS3Saver(ctx, cfg.ExportBucket, cfg.ExportPrefix)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to set up export archive: %w", err)
		}
		archive = s3Saver
	}

	// A missing provider key disables assist but not the rest of the API.
	var client llm.Client
	llmConfig, err := llm.ConfigFromEnv()
	if err == nil {
		client, err = llm.NewClient(ctx, llmConfig)
	}
	if err != nil {
		log.Printf("[server] Warning: AI assist disabled: %v", err)
		client = nil
	} else {
		closers = append(closers, func() { _ = client.Close() })
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s, err := NewWithDeps(cfg.Port, Deps{
		Users:      database,
		Resumes:    database,
		Sessions:   sessions,
		Passwords:  passwordConfig,
		JWT:        jwtConfig,
		Rasterizer: rasterizer,
		Archive:    archive,
		LLM:        client,
		RateLimit:  ratelimit.LoadConfig(),
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		cleanup()
		return nil, err
	}
	s.closers = closers
	return s, nil
}

// NewWithDeps creates a server from ready-made collaborators.
func NewWithDeps(port int, deps Deps) (*Server, error) {
	if deps.Users == nil || deps.Resumes == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("server needs user, resume and session stores")
	}
	if deps.Passwords == nil || deps.JWT == nil {
		return nil, fmt.Errorf("server needs password and JWT configuration")
	}

	assistService, err := assist.NewService(deps.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create assist service: %w", err)
	}

	rateConfig := deps.RateLimit
	if rateConfig == nil {
		rateConfig = &ratelimit.Config{Enabled: false}
	}

	s := &Server{
		resumes:     deps.Resumes,
		sessions:    deps.Sessions,
		exporter:    export.NewExporter(deps.Rasterizer, deps.Archive),
		assist:      assistService,
		rateLimiter: ratelimit.NewLimiter(rateConfig),
		jwtService:  NewJWTService(deps.JWT),
		userService: NewUserService(deps.Users, deps.Passwords),
		verbose:     deps.Verbose,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.handler = s.withMetrics(s.withRateLimit(s.withLogging(s.withCORS(s.routes()))))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export drives a browser
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	private := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	// Public endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metricsHandler())
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{id}/sample", s.handleTemplateSample)
	// Serves both /p/{slug} and /p/{slug}.json; wildcards cannot carry a suffix.
	mux.HandleFunc("GET /p/{slug}", s.handlePortfolio)

	private("PUT /auth/password", s.authHandler.ChangePassword)

	// Resume records
	private("GET /resumes", s.handleListResumes)
	private("POST /resumes", s.handleCreateResume)
	private("GET /resumes/{id}", s.handleGetResume)
	private("PUT /resumes/{id}", s.handleUpdateResume)
	private("DELETE /resumes/{id}", s.handleDeleteResume)
	private("POST /resumes/{id}/publish", s.handlePublishResume)
	private("POST /resumes/{id}/unpublish", s.handleUnpublishResume)
	private("GET /resumes/{id}/preview", s.handleResumePreview)
	private("GET /resumes/{id}/export.pdf", s.handleResumeExport)

	// Builder sessions
	private("POST /sessions", s.handleCreateSession)
	private("GET /sessions/{id}", s.handleGetSession)
	private("DELETE /sessions/{id}", s.handleDeleteSession)
	private("POST /sessions/{id}/next", s.handleSessionNext)
	private("POST /sessions/{id}/prev", s.handleSessionPrev)
	private("POST /sessions/{id}/jump/{step}", s.handleSessionJump)
	private("PUT /sessions/{id}/fields/{field}", s.handleSessionSetField)
	private("POST /sessions/{id}/rows/{field}", s.handleSessionAddRow)
	private("DELETE /sessions/{id}/rows/{field}/{index}", s.handleSessionRemoveRow)
	private("PUT /sessions/{id}/template", s.handleSessionTemplate)
	private("POST /sessions/{id}/save", s.handleSessionSave)
	private("GET /sessions/{id}/preview", s.handleSessionPreview)
	private("GET /sessions/{id}/export.pdf", s.handleSessionExport)

	private("POST /assist", s.handleAssist)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background work and releases connections opened by New.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if s.verbose {
			log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		}
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and a client-facing message. Unexpected
// errors are logged since their text is not sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.jsonResponse(w, status, errorBody{Error: ErrorMessage(err), Retryable: Retryable(err)})
}

type errorBody struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
