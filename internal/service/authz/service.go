// Package authz implements the permission resolver and the
// permission-scoped visibility listings.
package authz

import (
	"context"
	"log/slog"

	"paasd/internal/domain"
)

// Service answers "may this caller do X on Y" and lists the resources a
// caller can see. It only reads grants; the write path (granting,
// revoking) is administrative and gated on super-admin.
type Service struct {
	grants    domain.GrantStore
	resources domain.ResourceStore
	logger    *slog.Logger
}

// NewService creates a new authorization Service.
func NewService(grants domain.GrantStore, resources domain.ResourceStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		grants:    grants,
		resources: resources,
		logger:    logger.With("component", "authz"),
	}
}

// Allowed reports whether the caller holds permission on the resource at
// path. The check order is fixed:
//  1. Super-admin → true, zero store lookups.
//  2. Resource at path soft-deleted → false, even with a matching grant.
//  3. Empty group set → false, no grant query.
//  4. One batched grant query over groups × ancestor prefixes × permission.
//
// Fail closed: any store error is returned with allowed=false. A denial
// (false, nil) and a store failure (false, err) are distinct outcomes;
// callers must not log a failure as a denial.
func (s *Service) Allowed(ctx context.Context, caller domain.Caller, path string, permission string) (bool, error) {
	if caller.SuperAdmin {
		return true, nil
	}

	parsed, err := domain.ParseResourcePath(path)
	if err != nil {
		return false, err
	}

	res, err := s.resources.GetByPath(ctx, path)
	switch {
	case err == nil:
		if res.Deleted() {
			return false, nil
		}
	case domain.IsNotFoundError(err):
		// Paths may be checked before the resource exists (e.g. create
		// under a category prefix); the grant query decides.
	default:
		return false, err
	}

	if len(caller.Groups) == 0 {
		return false, nil
	}

	found, err := s.grants.AnyMatch(ctx, caller.Groups, parsed.Prefixes(), permission)
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListDeployments returns the page of deployments in the workspace the
// caller may view.
func (s *Service) ListDeployments(ctx context.Context, caller domain.Caller, workspaceID string, page domain.PageRequest) (*domain.ResourcePage[domain.DeploymentRow], error) {
	return s.resources.ListVisibleDeployments(ctx, workspaceID,
		caller.Groups, caller.SuperAdmin, domain.PermDeployerView, page)
}

// ListManagedURLs returns the page of managed URLs in the workspace the
// caller may view.
func (s *Service) ListManagedURLs(ctx context.Context, caller domain.Caller, workspaceID string, page domain.PageRequest) (*domain.ResourcePage[domain.ManagedURLRow], error) {
	return s.resources.ListVisibleManagedURLs(ctx, workspaceID,
		caller.Groups, caller.SuperAdmin, domain.PermManagedURLView, page)
}

// ListResources returns the page of base-shape resources of the given
// kind the caller may view.
func (s *Service) ListResources(ctx context.Context, caller domain.Caller, workspaceID string, kind domain.ResourceKind, page domain.PageRequest) (*domain.ResourcePage[domain.Resource], error) {
	if !kind.Valid() {
		return nil, domain.ErrValidation("unknown resource kind %q", kind)
	}
	return s.resources.ListVisible(ctx, workspaceID, kind,
		caller.Groups, caller.SuperAdmin, domain.ViewPermission(kind), page)
}

// Grant records a grant. Administrative: super-admin only.
func (s *Service) Grant(ctx context.Context, caller domain.Caller, groupID, pathPrefix, permission string) (*domain.Grant, error) {
	if !caller.SuperAdmin {
		return nil, domain.ErrAccessDenied("granting permissions requires super-admin")
	}
	grantedBy := caller.Identity
	created, err := s.grants.Grant(ctx, &domain.Grant{
		GroupID:    groupID,
		PathPrefix: pathPrefix,
		Permission: permission,
		GrantedBy:  &grantedBy,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("grant recorded",
		"group_id", groupID, "path_prefix", pathPrefix, "permission", permission)
	return created, nil
}

// Revoke removes a grant. Administrative: super-admin only.
func (s *Service) Revoke(ctx context.Context, caller domain.Caller, groupID, pathPrefix, permission string) error {
	if !caller.SuperAdmin {
		return domain.ErrAccessDenied("revoking permissions requires super-admin")
	}
	if err := s.grants.Revoke(ctx, groupID, pathPrefix, permission); err != nil {
		return err
	}
	s.logger.Info("grant revoked",
		"group_id", groupID, "path_prefix", pathPrefix, "permission", permission)
	return nil
}
