// Package api provides the REST API server for chords2maschine
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/chords2maschine/pkg/bundle"
	"github.com/james-see/chords2maschine/pkg/chordset"
)

// @title chords2maschine API
// @version 1.0
// @description Voice chord symbols for Maschine chord sets and manage a 16-slot bundle
// @host localhost:3001
// @BasePath /api/v1

// VisitCounter records unique visitors by client address
type VisitCounter interface {
	RecordVisit(ctx context.Context, address string) (int, error)
	UniqueVisitors(ctx context.Context) (int, error)
}

// Server holds the dependencies of the HTTP handlers
type Server struct {
	bundles *bundle.Manager
	visits  VisitCounter
	logger  *slog.Logger
	release bool
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request and error logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithReleaseMode runs gin in release mode with slog request logging
func WithReleaseMode(release bool) Option {
	return func(s *Server) {
		s.release = release
	}
}

// NewServer creates a Server
func NewServer(bundles *bundle.Manager, visits VisitCounter, opts ...Option) *Server {
	s := &Server{
		bundles: bundles,
		visits:  visits,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	var r *gin.Engine
	if s.release {
		gin.SetMode(gin.ReleaseMode)
		r = gin.New()
		r.Use(gin.Recovery(), s.requestLogger())
	} else {
		r = gin.Default()
	}

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// Visit counter
	r.GET("/api/visit", s.recordVisit)
	r.GET("/api/unique-visits", s.uniqueVisits)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/qualities", listQualities)
		v1.GET("/keys/:root/:mode", describeKey)
		v1.POST("/chords/parse", parseChord)
		v1.POST("/chords/analyze", analyzeChord)
		v1.POST("/chordsets", buildChordSet)
		v1.POST("/chordsets/annotate", annotateChordSet)
		v1.POST("/preview", renderPreview)

		b := v1.Group("/bundle")
		b.GET("", s.bundleStatus)
		b.PUT("/mode", s.setBundleMode)
		b.POST("/cursor", s.moveCursor)
		b.GET("/validate", s.validateBundle)
		b.GET("/export", s.exportBundle)
		b.PUT("/slots/:slot", s.saveSlot)
		b.DELETE("/slots/:slot", s.clearSlot)
		b.DELETE("/slots", s.clearAll)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer serves on port until ctx is cancelled
func (s *Server) StartServer(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chords2maschine",
	})
}

// statusFor maps error kinds to HTTP status codes
func statusFor(err error) int {
	switch chordset.KindOf(err) {
	case chordset.KindValidation, chordset.KindInvalidChord:
		return http.StatusBadRequest
	case chordset.KindDuplicateName:
		return http.StatusConflict
	case chordset.KindExportPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var cerr *chordset.Error
	if errors.As(err, &cerr) {
		body["kind"] = cerr.Kind.String()
		if cerr.Missing != nil {
			body["missing"] = cerr.Missing
		}
	}
	c.JSON(statusFor(err), body)
}

// fail logs server-side failures before responding
func (s *Server) fail(c *gin.Context, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	respondError(c, err)
}
