package datasets_services

import "errors"

// ErrDatasetNotFound covers both a missing dataset and one the caller may
// not see.
var ErrDatasetNotFound = errors.New("dataset not found")

var (
	ErrVersionNotFound   = errors.New("dataset version not found")
	ErrNoArtifact        = errors.New("dataset has no file artifact to process")
	ErrUnsupportedFormat = errors.New("unsupported file format, expected csv, arff or json")
	ErrFileTooLarge      = errors.New("uploaded file exceeds the size limit")
	ErrEmptyFile         = errors.New("uploaded file is empty")
)
