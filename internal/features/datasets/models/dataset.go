package datasets_models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	datasets_enums "inovadata/internal/features/datasets/enums"

	"github.com/google/uuid"
)

// ColumnInfo is one entry of the column metadata the analysis engine returns
// after a successful processing run.
type ColumnInfo struct {
	Name          string  `json:"name"`
	DataType      string  `json:"dataType"`
	MissingCount  int64   `json:"missingCount"`
	UniqueCount   int64   `json:"uniqueCount"`
	Mean          *float64 `json:"mean,omitempty"`
	Std           *float64 `json:"std,omitempty"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	OutliersCount *int64  `json:"outliersCount,omitempty"`
}

type ColumnsInfo []ColumnInfo

func (c ColumnsInfo) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}

	return json.Marshal(c)
}

func (c *ColumnsInfo) Scan(value any) error {
	return scanJSON(value, c)
}

// PreprocessingStep is one immutable record of the dataset's append-only
// preprocessing history.
type PreprocessingStep struct {
	Action     string         `json:"action"`
	ColumnName string         `json:"columnName,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	AppliedBy  uuid.UUID      `json:"appliedBy"`
	AppliedAt  time.Time      `json:"appliedAt"`
}

type PreprocessingHistory []PreprocessingStep

func (h PreprocessingHistory) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}

	return json.Marshal(h)
}

func (h *PreprocessingHistory) Scan(value any) error {
	return scanJSON(value, h)
}

type Dataset struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	ProjectID   uuid.UUID `json:"projectId"   gorm:"column:project_id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`

	FilePath      string                         `json:"filePath"      gorm:"column:file_path"`
	FileFormat    datasets_enums.FileFormat      `json:"fileFormat"    gorm:"column:file_format"`
	FileSizeBytes int64                          `json:"fileSizeBytes" gorm:"column:file_size_bytes"`

	ProcessingStatus datasets_enums.ProcessingStatus `json:"processingStatus" gorm:"column:processing_status"`
	ProcessingError  *string                         `json:"processingError"  gorm:"column:processing_error"`
	ProcessedAt      *time.Time                      `json:"processedAt"      gorm:"column:processed_at"`

	RowsCount    *int64       `json:"rowsCount"    gorm:"column:rows_count"`
	ColumnsCount *int64       `json:"columnsCount" gorm:"column:columns_count"`
	ColumnsInfo  ColumnsInfo  `json:"columnsInfo"  gorm:"column:columns_info;type:jsonb"`
	MemoryUsage  *float64     `json:"memoryUsage"  gorm:"column:memory_usage"`

	PreprocessingHistory PreprocessingHistory `json:"preprocessingHistory" gorm:"column:preprocessing_history;type:jsonb"`

	UploadedBy uuid.UUID `json:"uploadedBy" gorm:"column:uploaded_by"`
	CreatedAt  time.Time `json:"createdAt"  gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  gorm:"column:updated_at"`
}

func (Dataset) TableName() string {
	return "datasets"
}

// HasArtifact reports whether the dataset still points at a usable file.
// Processing and retry both require it.
func (d *Dataset) HasArtifact() bool {
	return d.FilePath != "" && d.FileFormat != ""
}

func scanJSON(value any, target any) error {
	if value == nil {
		return nil
	}

	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, target)
	case string:
		return json.Unmarshal([]byte(data), target)
	default:
		return errors.New("unsupported type for JSON column")
	}
}
