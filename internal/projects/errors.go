package projects

import "errors"

var (
	ErrNotFound    = errors.New("Project not found")
	ErrNotOwner    = errors.New("You do not have permission to modify this project")
	ErrNotEditable = errors.New("Only active projects can be updated")
)
