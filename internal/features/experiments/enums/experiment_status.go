package experiments_enums

type ExperimentStatus string

const (
	ExperimentStatusPending   ExperimentStatus = "pending"
	ExperimentStatusRunning   ExperimentStatus = "running"
	ExperimentStatusCompleted ExperimentStatus = "completed"
	ExperimentStatusFailed    ExperimentStatus = "failed"
)

func (s ExperimentStatus) IsValid() bool {
	switch s {
	case ExperimentStatusPending, ExperimentStatusRunning,
		ExperimentStatusCompleted, ExperimentStatusFailed:
		return true
	default:
		return false
	}
}

func (s ExperimentStatus) IsTerminal() bool {
	return s == ExperimentStatusCompleted || s == ExperimentStatusFailed
}
