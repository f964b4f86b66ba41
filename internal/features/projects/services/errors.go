package projects_services

import "errors"

// ErrProjectNotFound is returned both when a project does not exist and when
// the caller is not allowed to see it, so the API never reveals which.
var ErrProjectNotFound = errors.New("project not found")

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyMember  = errors.New("user is already a member of this project")
	ErrOwnerImmutable = errors.New("the project owner cannot be changed or removed")
	ErrInvalidRole    = errors.New("role must be editor or viewer")
	ErrUserNotFound   = errors.New("no user with this email")
)
