package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"imagequery/internal/config"
	"imagequery/internal/extraction"
	"imagequery/internal/handler"
	"imagequery/internal/repository/memory"
	"imagequery/internal/router"
	"imagequery/internal/service"
	"imagequery/internal/web"
)

// @title Image Query API
// @version 1.0
// @description Form session API behind the image extraction page.
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	configureLogging(&cfg.Log)
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}

	// Initialize repositories and clients
	sessionRepo := memory.NewSessionRepo()
	extractionClient := extraction.NewClient(cfg.Log.Debug())

	// Initialize services
	formSvc := service.NewFormService(sessionRepo, extractionClient)
	janitor := service.NewSessionJanitor(sessionRepo, service.SessionJanitorConfig{
		SweepInterval: cfg.Session.SweepInterval,
		IdleTTL:       cfg.Session.IdleTTL,
	})

	// Initialize handlers
	pageH := handler.NewPageHandler(formSvc)
	formH := handler.NewFormHandler(formSvc)
	healthH := handler.NewHealthHandler()

	r := router.Setup(formSvc, pageH, formH, healthH, router.Options{
		CookieName:         cfg.Session.CookieName,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		MaxMultipartMemory: cfg.Upload.MaxMemoryBytes(),
		Templates:          tmpl,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go janitor.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (extraction endpoint %s)", cfg.Server.Port, extraction.DefaultEndpoint)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func configureLogging(cfg *config.LogConfig) {
	switch cfg.Format {
	case "plain":
		log.SetFlags(0)
	default:
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
}
