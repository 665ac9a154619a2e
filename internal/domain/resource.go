package domain

import "time"

// ResourceKind discriminates the closed set of resource variants.
type ResourceKind string

// Resource kinds.
const (
	KindDeployment ResourceKind = "deployment"
	KindStaticSite ResourceKind = "static_site"
	KindManagedURL ResourceKind = "managed_url"
	KindDomain     ResourceKind = "domain"
	KindRepository ResourceKind = "repository"
)

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool {
	switch k {
	case KindDeployment, KindStaticSite, KindManagedURL, KindDomain, KindRepository:
		return true
	}
	return false
}

// PathSegment returns the permission-path segment for the kind, e.g.
// deployments live under `<workspace>::deployer::<id>`.
func (k ResourceKind) PathSegment() string {
	switch k {
	case KindDeployment:
		return "deployer"
	case KindStaticSite:
		return "staticSite"
	case KindManagedURL:
		return "managedUrl"
	case KindDomain:
		return "domain"
	case KindRepository:
		return "dockerRegistry"
	}
	return string(k)
}

// Resource is the base shape shared by every resource kind. Kind-specific
// columns live in side tables keyed by resource id and are decoded as
// tagged variants via the Kind discriminant.
type Resource struct {
	ID          string
	WorkspaceID string
	Kind        ResourceKind
	Name        string
	Path        ResourcePath
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the soft-delete marker is set. Deleted
// resources are excluded from all visibility results and permission
// checks.
func (r *Resource) Deleted() bool {
	return r.DeletedAt != nil
}

// DeriveResourcePath builds the canonical path for a resource instance:
// `<workspaceID>::<kind segment>::<resourceID>`. Deterministic given the
// resource's identity, so the stored path column never drifts.
func DeriveResourcePath(workspaceID string, kind ResourceKind, resourceID string) (ResourcePath, error) {
	return BuildResourcePath(workspaceID, kind.PathSegment(), resourceID)
}

// DeploymentRow is the deployment variant: base fields plus the image
// reference and lifecycle status.
type DeploymentRow struct {
	Resource
	ImageName string
	ImageTag  string
	Status    DeploymentStatus
}

// ManagedURLRow is the managed-URL variant: base fields plus the routing
// target decoded from the url_type discriminant.
type ManagedURLRow struct {
	Resource
	ManagedURL
}

// ResourcePage is one page of a visibility listing together with the
// total count of the permission-scoped set (not the unfiltered table).
type ResourcePage[T any] struct {
	Items []T
	Total int64
}
