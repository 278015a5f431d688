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

	"stmtview/internal/config"
	"stmtview/internal/domain"
	"stmtview/internal/handler"
	"stmtview/internal/metrics"
	"stmtview/internal/parser/remote"
	"stmtview/internal/router"
	"stmtview/internal/service"
)

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
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Parse service client and workflow controller
	parseClient := remote.NewParser(&cfg.API)
	controller := service.NewUploadController(parseClient)

	recorder := metrics.NewRecorder()
	controller.Subscribe(recorder.Observe)
	controller.Subscribe(func(t domain.Transition) {
		log.Printf("upload: %s -> %s (file=%q)", t.From, t.To, t.View.FileName)
	})

	// Initialize handlers
	uploadH := handler.NewUploadHandler(controller, cfg.API.FileField, cfg.API.MaxUploadMB)
	healthH := handler.NewHealthHandler(parseClient.Endpoint())

	r := router.Setup(cfg.CORS.AllowedOrigins, uploadH, healthH, recorder)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (parse service: %s)", cfg.Server.Port, parseClient.Endpoint())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
