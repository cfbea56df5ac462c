package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"docgen/internal/config"
	"docgen/internal/email/noop"
	"docgen/internal/email/ses"
	"docgen/internal/handler"
	"docgen/internal/logging"
	"docgen/internal/port"
	"docgen/internal/preview"
	"docgen/internal/render"
	"docgen/internal/repository/postgres"
	"docgen/internal/router"
	"docgen/internal/service"
	s3storage "docgen/internal/storage/s3"
)

const (
	sessionTimeout  = 30 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	templateRepo := postgres.NewTemplateRepo(db)
	documentRepo := postgres.NewDocumentRepo(db)
	batchRepo := postgres.NewBatchRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	notifier, err := newNotifier(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	pipeline := preview.NewPipeline(renderer)

	// Initialize services
	templateSvc := service.NewTemplateService(templateRepo, documentRepo, s3Client, pipeline, &cfg.S3)
	documentSvc := service.NewDocumentService(templateRepo, documentRepo, s3Client, renderer, pipeline,
		time.Duration(cfg.S3.PresignExpiry)*time.Second)
	batchSvc := service.NewBatchService(templateRepo, batchRepo, documentRepo, s3Client, renderer, notifier,
		cfg.Batch, cfg.S3.MaxFileSize())
	bulkSvc := service.NewBulkService(documentRepo, s3Client, cfg.Preview.ProbeConcurrency)

	r := router.Setup(router.Handlers{
		Template: handler.NewTemplateHandler(templateSvc),
		Document: handler.NewDocumentHandler(documentSvc),
		Batch:    handler.NewBatchHandler(batchSvc),
		Bulk:     handler.NewBulkHandler(bulkSvc),
		Health:   handler.NewHealthHandler(db),
	}, cfg.CORS.AllowedOrigins, cfg.S3.MaxFileSize())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := service.NewBatchQueueWorker(batchRepo, batchSvc, service.BatchQueueConfig{
		PollInterval:   time.Duration(cfg.Batch.PollIntervalSecs) * time.Second,
		Concurrency:    cfg.Batch.WorkerConcurrency,
		SessionTimeout: sessionTimeout,
	})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	wg.Wait()
	logrus.Info("server stopped")
	return nil
}

func newNotifier(cfg *config.EmailConfig) (port.BatchNotifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	case "noop", "":
		return noop.NewNoopSender(cfg.FrontendURL), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
