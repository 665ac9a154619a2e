package domain

import "time"

// Grant authorizes every member of a group to exercise a permission on a
// resource-path prefix and everything below it. Grants are owned by the
// workspace's permission store; the authorization core only reads them.
type Grant struct {
	ID         string
	GroupID    string
	PathPrefix string
	Permission string
	GrantedBy  *string
	GrantedAt  time.Time
}

// Group is a named set of principals within a workspace.
type Group struct {
	ID          string
	WorkspaceID string
	Name        string
	CreatedAt   time.Time
}

// Workspace is the tenant boundary. Every resource and grant belongs to
// exactly one workspace.
type Workspace struct {
	ID           string
	Name         string
	SuperAdminID string
	CreatedAt    time.Time
}
