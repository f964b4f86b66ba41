package datasets_enums

type ProcessingStatus string

const (
	ProcessingStatusPending    ProcessingStatus = "pending"
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusCompleted  ProcessingStatus = "completed"
	ProcessingStatusFailed     ProcessingStatus = "failed"
)

func (s ProcessingStatus) IsValid() bool {
	switch s {
	case ProcessingStatusPending, ProcessingStatusProcessing,
		ProcessingStatusCompleted, ProcessingStatusFailed:
		return true
	default:
		return false
	}
}

func (s ProcessingStatus) IsTerminal() bool {
	return s == ProcessingStatusCompleted || s == ProcessingStatusFailed
}

type FileFormat string

const (
	FileFormatCSV  FileFormat = "csv"
	FileFormatARFF FileFormat = "arff"
	FileFormatJSON FileFormat = "json"
)

func (f FileFormat) IsValid() bool {
	switch f {
	case FileFormatCSV, FileFormatARFF, FileFormatJSON:
		return true
	default:
		return false
	}
}
