package ui

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"loandash/internal"
	"loandash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Server represents the web server for the loan dashboard
type Server struct {
	router    *gin.Engine
	builder   *dashboard.Builder
	templates *template.Template
	assets    fs.FS
	sidebar   template.HTML
	logger    *internal.Logger
}

// NewServer wires routes around a builder that already holds the loaded table
func NewServer(builder *dashboard.Builder, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, err
	}

	router := gin.New()

	s := &Server{
		router:    router,
		builder:   builder,
		templates: templates,
		assets:    embeddedFiles,
		sidebar:   renderMarkdown(SidebarFeaturesMD),
		logger:    logger.With("Server"),
	}
	// request lines are info-level noise below INFO
	if logger.GetLevel() >= internal.LogLevelInfo {
		router.Use(gin.Logger())
	}
	router.Use(gin.CustomRecovery(s.recoverPanic))
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		// embedded at compile time; a missing directory is a build defect
		panic(err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))

	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/overview", s.handleOverview)
	api.GET("/charts/trends", s.handleTrends)
	api.GET("/charts/performance", s.handlePerformance)
	api.GET("/charts/condition", s.handleCondition)

	s.router.NoRoute(s.handleNotFound)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests for up
// to shutdownTimeout
func (s *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
