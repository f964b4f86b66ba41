package datasets_engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external analysis engine. The engine performs all
// statistical work; this side only submits jobs and interprets outcomes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type ProcessRequest struct {
	DatasetID  string `json:"dataset_id"`
	FilePath   string `json:"file_path"`
	FileFormat string `json:"file_format"`
	SampleSize int    `json:"sample_size"`
}

type ProcessColumn struct {
	Name          string   `json:"name"`
	DataType      string   `json:"data_type"`
	MissingCount  int64    `json:"missing_count"`
	UniqueCount   int64    `json:"unique_count"`
	Mean          *float64 `json:"mean,omitempty"`
	Std           *float64 `json:"std,omitempty"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	OutliersCount *int64   `json:"outliers_count,omitempty"`
}

type ProcessResponse struct {
	Success      bool            `json:"success"`
	RowsCount    int64           `json:"rows_count"`
	ColumnsCount int64           `json:"columns_count"`
	Columns      []ProcessColumn `json:"columns"`
	MemoryUsage  float64         `json:"memory_usage"`
	Errors       []string        `json:"errors,omitempty"`
}

type AdvancedAnalysisRequest struct {
	FilePath            string           `json:"file_path"`
	FileFormat          string           `json:"file_format"`
	CustomMissingValues []string         `json:"custom_missing_values,omitempty"`
	ColumnConfigs       []map[string]any `json:"column_configs,omitempty"`
	DetectOutliers      bool             `json:"detect_outliers"`
}

type AdvancedAnalysisResponse struct {
	Columns []map[string]any `json:"columns"`
}

type PreviewRequest struct {
	FilePath   string `json:"file_path"`
	FileFormat string `json:"file_format"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

type PreviewResponse struct {
	Data      []map[string]any `json:"data"`
	Columns   []string         `json:"columns"`
	TotalRows int64            `json:"total_rows"`
}

type PreprocessRequest struct {
	FilePath            string   `json:"file_path"`
	FileFormat          string   `json:"file_format"`
	ColumnName          string   `json:"column_name"`
	Action              string   `json:"action"`
	OutputPath          string   `json:"output_path"`
	CustomMissingValues []string `json:"custom_missing_values,omitempty"`
	Method              string   `json:"method,omitempty"`
	ReplacementStrategy string   `json:"replacement_strategy,omitempty"`
	MinValue            *float64 `json:"min_value,omitempty"`
	MaxValue            *float64 `json:"max_value,omitempty"`
}

type PreprocessResponse struct {
	Message   string `json:"message"`
	FinalRows int64  `json:"final_rows"`
}

// ProcessDataset asks the engine to profile a dataset artifact. On
// success:false the error text is exactly the engine's own error list, so
// callers can persist it verbatim.
func (c *Client) ProcessDataset(ctx context.Context, request *ProcessRequest) (*ProcessResponse, error) {
	var response ProcessResponse
	if err := c.post(ctx, "/process", request, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		return nil, errors.New(engineErrorText(response.Errors))
	}

	return &response, nil
}

func (c *Client) AnalyzeAdvanced(
	ctx context.Context,
	request *AdvancedAnalysisRequest,
) (*AdvancedAnalysisResponse, error) {
	var response AdvancedAnalysisResponse
	if err := c.post(ctx, "/analyze-advanced", request, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) Preview(ctx context.Context, request *PreviewRequest) (*PreviewResponse, error) {
	var response PreviewResponse
	if err := c.post(ctx, "/preview", request, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) Preprocess(ctx context.Context, request *PreprocessRequest) (*PreprocessResponse, error) {
	var response PreprocessResponse
	if err := c.post(ctx, "/preprocess", request, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) post(ctx context.Context, path string, request any, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode engine request: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to build engine request: %w", err)
	}

	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("analysis engine unreachable: %w", err)
	}
	defer httpResponse.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(httpResponse.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read engine response: %w", err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return fmt.Errorf(
			"analysis engine returned %d: %s",
			httpResponse.StatusCode,
			extractErrorMessage(responseBody),
		)
	}

	if err := json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to decode engine response: %w", err)
	}

	return nil
}

func engineErrorText(messages []string) string {
	if len(messages) == 0 {
		return "processing failed"
	}

	return strings.Join(messages, ", ")
}

// extractErrorMessage pulls a human-readable message out of an error body,
// falling back to the raw payload.
func extractErrorMessage(body []byte) string {
	var payload struct {
		Error   string   `json:"error"`
		Detail  string   `json:"detail"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			return payload.Error
		case payload.Detail != "":
			return payload.Detail
		case payload.Message != "":
			return payload.Message
		case len(payload.Errors) > 0:
			return strings.Join(payload.Errors, "; ")
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "no error details provided"
	}

	if len(text) > 500 {
		text = text[:500]
	}

	return text
}
