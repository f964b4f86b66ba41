package datasets_services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"inovadata/internal/config"
	activity_logs "inovadata/internal/features/activity"
	activity_models "inovadata/internal/features/activity/models"
	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_enums "inovadata/internal/features/datasets/enums"
	datasets_models "inovadata/internal/features/datasets/models"
	datasets_repositories "inovadata/internal/features/datasets/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	processingQueueKey      = "datasets:processing_queue"
	processingBatchSize     = 10
	processingRecoveryLimit = 500
	processingPollPeriod    = 1 * time.Second
	engineCallTimeout       = 10 * time.Minute
)

// ProcessingQueue is the transport between Submit/Retry and the workers.
// Backed by Valkey in production; tests swap in an in-memory queue.
type ProcessingQueue interface {
	Enqueue(queueKey string, item []byte) error
	DequeueBatch(queueKey string, maxCount int) ([][]byte, error)
}

// ProcessingService drives datasets through the state machine
// pending -> processing -> completed/failed. Submit and retry enqueue and
// return immediately; workers own the remote leg. A compare-and-swap on the
// pending status plus a per-dataset single-flight group guarantee at most
// one in-flight run per dataset.
type ProcessingService struct {
	datasetRepository  *datasets_repositories.DatasetRepository
	engineClient       *datasets_engine.Client
	queue              ProcessingQueue
	activityLogService *activity_logs.ActivityLogService
	logger             *slog.Logger
	sampleSize         int

	processGroup singleflight.Group
}

// Start launches the queue consumer. Datasets left in pending state by a
// previous run are re-enqueued first, then the consumer drains outstanding
// work until the context is cancelled.
func (s *ProcessingService) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)

	go func() {
		defer wg.Done()

		s.recoverPendingDatasets()

		ticker := time.NewTicker(processingPollPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.consumeQueue(ctx)
			}
		}
	}()
}

func (s *ProcessingService) consumeQueue(ctx context.Context) {
	// Stop picking up new work once a shutdown signal arrived; in-flight
	// jobs drain through the WaitGroup.
	if config.IsShouldShutdown() {
		return
	}

	items, err := s.queue.DequeueBatch(processingQueueKey, processingBatchSize)
	if err != nil {
		s.logger.Error("failed to dequeue processing jobs", "error", err)
		return
	}

	var batch sync.WaitGroup

	for _, item := range items {
		datasetID, err := uuid.ParseBytes(item)
		if err != nil {
			s.logger.Error("dropping malformed processing job", "payload", string(item))
			continue
		}

		batch.Add(1)

		go func() {
			defer batch.Done()
			s.ProcessDataset(ctx, datasetID)
		}()
	}

	batch.Wait()
}

// recoverPendingDatasets re-enqueues datasets whose submission was lost to a
// shutdown between the status write and the queue write.
func (s *ProcessingService) recoverPendingDatasets() {
	ids, err := s.datasetRepository.GetDatasetIDsByStatus(
		datasets_enums.ProcessingStatusPending, processingRecoveryLimit)
	if err != nil {
		s.logger.Error("failed to look up pending datasets for recovery", "error", err)
		return
	}

	for _, id := range ids {
		s.Submit(id)
	}

	if len(ids) > 0 {
		s.logger.Info("re-enqueued pending datasets", "count", len(ids))
	}
}

// Submit enqueues a processing run for the dataset and returns immediately.
// The dataset is expected to be in pending state already.
func (s *ProcessingService) Submit(datasetID uuid.UUID) {
	if err := s.queue.Enqueue(processingQueueKey, []byte(datasetID.String())); err != nil {
		s.logger.Error("failed to enqueue dataset for processing",
			"datasetId", datasetID, "error", err)
	}
}

// ProcessDataset executes one processing attempt. Concurrent calls for the
// same dataset collapse into a single run; a run only proceeds if it wins
// the pending -> processing compare-and-swap. Every failure inside this leg
// ends as a failed status with a captured message, never a propagated error.
func (s *ProcessingService) ProcessDataset(ctx context.Context, datasetID uuid.UUID) {
	s.processGroup.Do(datasetID.String(), func() (any, error) {
		s.runProcessing(ctx, datasetID)
		return nil, nil
	})
}

func (s *ProcessingService) runProcessing(ctx context.Context, datasetID uuid.UUID) {
	dataset, err := s.datasetRepository.GetDatasetByID(datasetID)
	if err != nil {
		s.logger.Error("failed to load dataset for processing",
			"datasetId", datasetID, "error", err)
		return
	}

	if dataset == nil {
		return
	}

	claimed, err := s.datasetRepository.ClaimForProcessing(datasetID)
	if err != nil {
		s.logger.Error("failed to claim dataset for processing",
			"datasetId", datasetID, "error", err)
		return
	}

	if !claimed {
		// Another worker won the attempt or the state moved on.
		return
	}

	// Checked after the claim so the failed status is only ever reached
	// through processing.
	if !dataset.HasArtifact() {
		s.fail(dataset, "dataset has no file artifact to process")
		return
	}

	engineCtx, cancel := context.WithTimeout(ctx, engineCallTimeout)
	defer cancel()

	response, err := s.engineClient.ProcessDataset(engineCtx, &datasets_engine.ProcessRequest{
		DatasetID:  dataset.ID.String(),
		FilePath:   dataset.FilePath,
		FileFormat: string(dataset.FileFormat),
		SampleSize: s.sampleSize,
	})
	if err != nil {
		s.fail(dataset, err.Error())
		return
	}

	columnsInfo := make(datasets_models.ColumnsInfo, 0, len(response.Columns))
	for _, column := range response.Columns {
		columnsInfo = append(columnsInfo, datasets_models.ColumnInfo{
			Name:          column.Name,
			DataType:      column.DataType,
			MissingCount:  column.MissingCount,
			UniqueCount:   column.UniqueCount,
			Mean:          column.Mean,
			Std:           column.Std,
			Min:           column.Min,
			Max:           column.Max,
			OutliersCount: column.OutliersCount,
		})
	}

	err = s.datasetRepository.CompleteProcessing(
		datasetID,
		response.RowsCount,
		response.ColumnsCount,
		columnsInfo,
		response.MemoryUsage,
	)
	if err != nil {
		s.logger.Error("failed to persist processing result",
			"datasetId", datasetID, "error", err)
		return
	}

	s.activityLogService.WriteActivityLog(
		nil,
		&dataset.ProjectID,
		"dataset.processed",
		"dataset",
		&dataset.ID,
		activity_models.Details{"rowsCount": response.RowsCount},
	)

	s.logger.Info("dataset processed",
		"datasetId", datasetID, "rows", response.RowsCount, "columns", response.ColumnsCount)
}

func (s *ProcessingService) fail(dataset *datasets_models.Dataset, message string) {
	if err := s.datasetRepository.FailProcessing(dataset.ID, message); err != nil {
		s.logger.Error("failed to persist processing failure",
			"datasetId", dataset.ID, "error", err)
		return
	}

	s.activityLogService.WriteActivityLog(
		nil,
		&dataset.ProjectID,
		"dataset.processing_failed",
		"dataset",
		&dataset.ID,
		activity_models.Details{"error": message},
	)

	s.logger.Warn("dataset processing failed", "datasetId", dataset.ID, "error", message)
}

// ExecuteBackgroundTasksForTest drains the queue synchronously so tests can
// observe terminal states without running the worker loop.
func (s *ProcessingService) ExecuteBackgroundTasksForTest() {
	for {
		items, err := s.queue.DequeueBatch(processingQueueKey, processingBatchSize)
		if err != nil || len(items) == 0 {
			return
		}

		for _, item := range items {
			datasetID, err := uuid.ParseBytes(item)
			if err != nil {
				continue
			}

			s.ProcessDataset(context.Background(), datasetID)
		}
	}
}
