package projects_interfaces

import "github.com/google/uuid"

// ProjectDeletionListener lets other features remove their project-scoped
// rows and artifacts before the project itself is deleted. Listeners run
// outside the deleting transaction and must be safe to retry.
type ProjectDeletionListener interface {
	OnBeforeProjectDeletion(projectID uuid.UUID) error
}
