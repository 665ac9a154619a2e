package domain

import (
	"context"
	"time"
)

// GrantStore provides read access to grant records plus the write path
// used by seeding, tests, and the CLI. The authorization core itself only
// reads.
type GrantStore interface {
	// AnyMatch reports whether at least one grant matches any of the
	// given group ids, any of the given path prefixes, and the
	// permission — as a single batched set-membership query, never one
	// round trip per (group, prefix) pair.
	AnyMatch(ctx context.Context, groupIDs []string, prefixes []string, permission string) (bool, error)

	Grant(ctx context.Context, g *Grant) (*Grant, error)
	Revoke(ctx context.Context, groupID, pathPrefix, permission string) error
	ListForGroup(ctx context.Context, groupID string, page PageRequest) ([]Grant, int64, error)
}

// ResourceStore persists resources and executes the permission-scoped
// visibility queries.
type ResourceStore interface {
	GetByPath(ctx context.Context, path string) (*Resource, error)
	Get(ctx context.Context, id string) (*Resource, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// ListVisible returns the page of non-deleted resources of the given
	// kind in the workspace that the group set can see under permission,
	// newest first, plus the total of that same filtered set. A nil
	// groups slice with superAdmin=true short-circuits the grant join.
	ListVisible(ctx context.Context, workspaceID string, kind ResourceKind, groupIDs []string, superAdmin bool, permission string, page PageRequest) (*ResourcePage[Resource], error)
	ListVisibleDeployments(ctx context.Context, workspaceID string, groupIDs []string, superAdmin bool, permission string, page PageRequest) (*ResourcePage[DeploymentRow], error)
	ListVisibleManagedURLs(ctx context.Context, workspaceID string, groupIDs []string, superAdmin bool, permission string, page PageRequest) (*ResourcePage[ManagedURLRow], error)

	CreateDeployment(ctx context.Context, workspaceID, name, imageName, imageTag string) (*DeploymentRow, error)
	CreateManagedURL(ctx context.Context, workspaceID, name string, u *ManagedURL) (*ManagedURLRow, error)
	CreateResource(ctx context.Context, workspaceID string, kind ResourceKind, name string) (*Resource, error)

	GetDeployment(ctx context.Context, id string) (*DeploymentRow, error)
	SetDeploymentStatus(ctx context.Context, id string, status DeploymentStatus) error

	// PurgeDeletedBefore hard-deletes rows whose soft-delete marker is
	// older than cutoff. Returns the number of purged resources.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// WorkspaceStore persists workspaces and groups.
type WorkspaceStore interface {
	CreateWorkspace(ctx context.Context, name, superAdminID string) (*Workspace, error)
	GetWorkspaceByName(ctx context.Context, name string) (*Workspace, error)
	CreateGroup(ctx context.Context, workspaceID, name string) (*Group, error)
	GetGroupByName(ctx context.Context, workspaceID, name string) (*Group, error)
}
