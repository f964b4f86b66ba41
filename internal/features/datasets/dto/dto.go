package datasets_dto

import (
	datasets_engine "inovadata/internal/features/datasets/engine"
	datasets_models "inovadata/internal/features/datasets/models"
)

type UpdateDatasetRequestDTO struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
}

type DatasetResponseDTO struct {
	Dataset *datasets_models.Dataset `json:"dataset"`
}

type ListDatasetsResponseDTO struct {
	Datasets []*datasets_models.Dataset `json:"datasets"`
}

type PreviewRequestDTO struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type PreviewResponseDTO struct {
	Data      []map[string]any `json:"data"`
	Columns   []string         `json:"columns"`
	TotalRows int64            `json:"totalRows"`
}

type AdvancedAnalysisRequestDTO struct {
	CustomMissingValues []string         `json:"customMissingValues,omitempty"`
	ColumnConfigs       []map[string]any `json:"columnConfigs,omitempty"`
	DetectOutliers      bool             `json:"detectOutliers"`
}

type AdvancedAnalysisResponseDTO struct {
	Columns []map[string]any `json:"columns"`
}

type PreprocessRequestDTO struct {
	ColumnName          string         `json:"columnName" binding:"required"`
	Action              string         `json:"action" binding:"required,oneof=fill_missing replace_outliers remove_outliers drop_column"`
	CustomMissingValues []string       `json:"customMissingValues,omitempty"`
	Method              string         `json:"method,omitempty"`
	ReplacementStrategy string         `json:"replacementStrategy,omitempty"`
	MinValue            *float64       `json:"minValue,omitempty"`
	MaxValue            *float64       `json:"maxValue,omitempty"`
	Params              map[string]any `json:"params,omitempty"`
}

type CreateVersionRequestDTO struct {
	Description *string `json:"description,omitempty"`
}

type VersionResponseDTO struct {
	Version *datasets_models.DatasetVersion `json:"version"`
}

type ListVersionsResponseDTO struct {
	Versions []*datasets_models.DatasetVersion `json:"versions"`
}

func PreviewResponseFromEngine(response *datasets_engine.PreviewResponse) *PreviewResponseDTO {
	return &PreviewResponseDTO{
		Data:      response.Data,
		Columns:   response.Columns,
		TotalRows: response.TotalRows,
	}
}
