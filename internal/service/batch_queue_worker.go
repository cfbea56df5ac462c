package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"docgen/internal/port"
)

// BatchQueueConfig holds settings for the batch queue worker.
type BatchQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	// SessionTimeout bounds the processing of a single session.
	SessionTimeout time.Duration
}

// BatchQueueWorker polls for queued batch sessions and processes them.
type BatchQueueWorker struct {
	batchRepo    port.BatchRepository
	batchService BatchService
	cfg          BatchQueueConfig
	wg           sync.WaitGroup
}

// NewBatchQueueWorker creates a new BatchQueueWorker.
func NewBatchQueueWorker(batchRepo port.BatchRepository, batchService BatchService, cfg BatchQueueConfig) *BatchQueueWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 30 * time.Minute
	}
	return &BatchQueueWorker{
		batchRepo:    batchRepo,
		batchService: batchService,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight sessions have finished.
func (w *BatchQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	logrus.Infof("batchQueueWorker: started (poll=%s, concurrency=%d)", w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			logrus.Info("batchQueueWorker: shutting down, waiting for in-flight sessions...")
			w.wg.Wait()
			logrus.Info("batchQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			w.poll(ctx, sem)
		}
	}
}

func (w *BatchQueueWorker) poll(ctx context.Context, sem chan struct{}) {
	available := w.cfg.Concurrency - len(sem)
	if available <= 0 {
		return
	}

	sessions, err := w.batchRepo.ClaimQueued(ctx, available)
	if err != nil {
		if ctx.Err() == nil {
			logrus.Errorf("batchQueueWorker: ClaimQueued error: %v", err)
		}
		return
	}

	for i := range sessions {
		session := sessions[i]

		sem <- struct{}{} // acquire
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-sem }() // release

			// A fresh context lets in-flight sessions complete during shutdown.
			procCtx, cancel := context.WithTimeout(context.Background(), w.cfg.SessionTimeout)
			defer cancel()

			logrus.Infof("batchQueueWorker: processing session %s (%d rows)", session.ID, len(session.Rows))
			if _, err := w.batchService.ProcessSession(procCtx, &session); err != nil {
				logrus.Errorf("batchQueueWorker: session %s: %v", session.ID, err)
			}
		}()
	}
}
