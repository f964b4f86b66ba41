package system

import (
	"log/slog"
	"time"

	"inovadata/internal/config"
	"inovadata/internal/storage"

	"github.com/shirou/gopsutil/v4/disk"
)

type SystemService struct {
	logger *slog.Logger
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	CheckedAt time.Time `json:"checkedAt"`
}

type DiskUsage struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	UsedBytes   uint64  `json:"usedBytes"`
	FreeBytes   uint64  `json:"freeBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

func (s *SystemService) GetHealth() *HealthStatus {
	status := &HealthStatus{
		Status:    "ok",
		Database:  "ok",
		CheckedAt: time.Now().UTC(),
	}

	sqlDb, err := storage.GetDb().DB()
	if err != nil {
		status.Status = "degraded"
		status.Database = "unavailable"
		return status
	}

	if err := sqlDb.Ping(); err != nil {
		s.logger.Error("database ping failed", "error", err)
		status.Status = "degraded"
		status.Database = "unavailable"
	}

	return status
}

// GetUploadVolumeUsage reports usage of the volume holding dataset uploads,
// so operators can see when the upload disk is filling up.
func (s *SystemService) GetUploadVolumeUsage() (*DiskUsage, error) {
	usage, err := disk.Usage(config.GetEnv().UploadFolder)
	if err != nil {
		return nil, err
	}

	return &DiskUsage{
		Path:        usage.Path,
		TotalBytes:  usage.Total,
		UsedBytes:   usage.Used,
		FreeBytes:   usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}
