// Command backfill re-extracts the field catalog of every stored template,
// picking up changes to placeholder extraction or type classification.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"docgen/internal/config"
	"docgen/internal/logging"
	"docgen/internal/preview"
	"docgen/internal/render"
	"docgen/internal/repository/postgres"
	"docgen/internal/service"
	s3storage "docgen/internal/storage/s3"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("initializing S3 client: %w", err)
	}
	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	templateRepo := postgres.NewTemplateRepo(db)
	templateSvc := service.NewTemplateService(templateRepo, postgres.NewDocumentRepo(db), s3Client,
		preview.NewPipeline(renderer), &cfg.S3)

	ctx := context.Background()
	offset, refreshed, failed := 0, 0, 0

	for {
		tpls, _, err := templateRepo.List(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing templates at offset %d: %w", offset, err)
		}
		if len(tpls) == 0 {
			break
		}

		for i := range tpls {
			before := tpls[i].FieldCount
			updated, err := templateSvc.RefreshFields(ctx, tpls[i].ID)
			if err != nil {
				logrus.Warnf("backfill: skipping template %s: %v", tpls[i].ID, err)
				failed++
				continue
			}
			if updated.FieldCount != before {
				logrus.Infof("backfill: template %q: %d -> %d fields", updated.Name, before, updated.FieldCount)
			}
			refreshed++
		}

		offset += len(tpls)
		logrus.Infof("backfill: progress %d templates", offset)
	}

	logrus.Infof("backfill complete: %d templates refreshed, %d failed", refreshed, failed)
	return nil
}
