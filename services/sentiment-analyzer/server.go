package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"puresearch/sentiment-analyzer/common/config"
	"puresearch/sentiment-analyzer/common/logging"
	"puresearch/sentiment-analyzer/common/models"
	"puresearch/sentiment-analyzer/common/sentiment"
	_ "puresearch/sentiment-analyzer/services/sentiment-analyzer/docs"
)

const serviceName = "sentiment-analyzer"

//go:embed web
var webFS embed.FS

// reviewAnalyzer is the part of sentiment.Analyzer the handlers use
type reviewAnalyzer interface {
	Analyze(text string) (sentiment.Result, error)
	AnalyzeBatch(texts []string) []sentiment.BatchItem
}

// server carries the state shared by all handlers. Nothing in it changes
// after startup, so handlers need no locking.
type server struct {
	analyzer reviewAnalyzer
	info     models.ModelInfo
	logger   *zap.Logger
}

// newRouter builds the gin engine with the page, the JSON API and the docs
func newRouter(s *server, corsOrigins []string) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(s.logger))

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(webFS, "web/templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}
	router.StaticFS("/static", http.FS(static))

	// Health check endpoint
	router.GET("/health", s.handleHealth)

	// Page
	router.GET("/", s.handleIndex)
	router.POST("/", s.handleAnalyzeForm)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/analyze", s.handleAnalyze)
		apiV1.POST("/analyze/batch", s.handleAnalyzeBatch)
		apiV1.GET("/model", s.handleModel)
		apiV1.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return router, nil
}

// serve runs the HTTP server until SIGINT/SIGTERM, then shuts it down
// gracefully within cfg.ShutdownTimeout
func serve(cfg config.Config, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		logger.Info("Starting Sentiment Analyzer server", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Shutting down Sentiment Analyzer server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Sentiment Analyzer server exited")
	return nil
}
