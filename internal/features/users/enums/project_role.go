package users_enums

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleEditor ProjectRole = "editor"
	ProjectRoleViewer ProjectRole = "viewer"
)

// IsValid validates the ProjectRole
func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleOwner, ProjectRoleEditor, ProjectRoleViewer:
		return true
	default:
		return false
	}
}

// IsAssignable reports whether the role may be granted through membership
// management. The owner role is only ever created together with its project.
func (r ProjectRole) IsAssignable() bool {
	return r == ProjectRoleEditor || r == ProjectRoleViewer
}
