// Package infra implements the workspace resource operations: creating
// deployments and managed URLs, moving deployments through their
// lifecycle, and soft-deleting resources.
package infra

import (
	"context"
	"log/slog"
	"time"

	"paasd/internal/domain"
)

// Authorizer answers permission checks. Satisfied by authz.Service.
type Authorizer interface {
	Allowed(ctx context.Context, caller domain.Caller, path string, permission string) (bool, error)
}

// Service coordinates resource mutations with their permission checks.
// Denials surface as NotFoundError so a caller cannot distinguish "you
// may not" from "it does not exist".
type Service struct {
	resources domain.ResourceStore
	authz     Authorizer
	logger    *slog.Logger
}

// NewService creates a new infra Service.
func NewService(resources domain.ResourceStore, authz Authorizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resources: resources,
		authz:     authz,
		logger:    logger.With("component", "infra"),
	}
}

// categoryPath is the path authorizing creation of a kind inside a
// workspace, e.g. `<ws>::deployer` for deployments.
func categoryPath(workspaceID string, kind domain.ResourceKind) string {
	return workspaceID + domain.PathSeparator + kind.PathSegment()
}

// authorize runs one permission check and folds a denial into NotFound.
func (s *Service) authorize(ctx context.Context, caller domain.Caller, path, permission string) error {
	ok, err := s.authz.Allowed(ctx, caller, path, permission)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound("resource not found")
	}
	return nil
}

// CreateDeployment creates a deployment in status `created`.
func (s *Service) CreateDeployment(ctx context.Context, caller domain.Caller, workspaceID, name, imageName, imageTag string) (*domain.DeploymentRow, error) {
	path := categoryPath(workspaceID, domain.KindDeployment)
	if err := s.authorize(ctx, caller, path, domain.PermDeployerCreate); err != nil {
		return nil, err
	}
	row, err := s.resources.CreateDeployment(ctx, workspaceID, name, imageName, imageTag)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deployment created",
		"deployment_id", row.ID, "workspace_id", workspaceID, "image", imageName+":"+imageTag)
	return row, nil
}

// UpdateDeploymentStatus moves a deployment to the next lifecycle status.
// The transition is certified against the state machine before anything
// is written; an illegal transition is a ValidationError naming both
// states.
func (s *Service) UpdateDeploymentStatus(ctx context.Context, caller domain.Caller, deploymentID string, next domain.DeploymentStatus) (*domain.DeploymentRow, error) {
	if !next.Valid() {
		return nil, domain.ErrValidation("unknown deployment status %q", next)
	}

	dep, err := s.resources.GetDeployment(ctx, deploymentID)
	if err != nil {
		return nil, err
	}
	if dep.Deleted() {
		return nil, domain.ErrNotFound("deployment %s not found", deploymentID)
	}

	if err := s.authorize(ctx, caller, dep.Path.String(), statusPermission(next)); err != nil {
		return nil, err
	}

	if !domain.CanTransition(dep.Status, next) {
		return nil, domain.ErrValidation(
			"deployment cannot move from %q to %q", dep.Status, next)
	}

	if err := s.resources.SetDeploymentStatus(ctx, deploymentID, next); err != nil {
		return nil, err
	}
	s.logger.Info("deployment status changed",
		"deployment_id", deploymentID, "from", dep.Status, "to", next)

	dep.Status = next
	return dep, nil
}

// statusPermission maps a target status to the permission its transition
// requires. Starting and stopping are separately grantable; everything
// else rides on update, and deletion on delete.
func statusPermission(next domain.DeploymentStatus) string {
	switch next {
	case domain.DeploymentRunning:
		return domain.PermDeployerStart
	case domain.DeploymentStopped:
		return domain.PermDeployerStop
	case domain.DeploymentDeleted:
		return domain.PermDeployerDelete
	default:
		return domain.PermDeployerUpdate
	}
}

// DeleteDeployment soft-deletes a deployment and marks its lifecycle
// status deleted. The row remains for the retention sweep; it is
// invisible to every listing and permission check immediately.
func (s *Service) DeleteDeployment(ctx context.Context, caller domain.Caller, deploymentID string) error {
	dep, err := s.resources.GetDeployment(ctx, deploymentID)
	if err != nil {
		return err
	}
	if dep.Deleted() {
		return domain.ErrNotFound("deployment %s not found", deploymentID)
	}
	if err := s.authorize(ctx, caller, dep.Path.String(), domain.PermDeployerDelete); err != nil {
		return err
	}

	if err := s.resources.SetDeploymentStatus(ctx, deploymentID, domain.DeploymentDeleted); err != nil {
		return err
	}
	if err := s.resources.SoftDelete(ctx, deploymentID, time.Now().UTC()); err != nil {
		return err
	}
	s.logger.Info("deployment deleted", "deployment_id", deploymentID)
	return nil
}

// CreateManagedURL creates a managed URL after validating its variant.
func (s *Service) CreateManagedURL(ctx context.Context, caller domain.Caller, workspaceID, name string, u *domain.ManagedURL) (*domain.ManagedURLRow, error) {
	path := categoryPath(workspaceID, domain.KindManagedURL)
	if err := s.authorize(ctx, caller, path, domain.PermManagedURLCreate); err != nil {
		return nil, err
	}
	row, err := s.resources.CreateManagedURL(ctx, workspaceID, name, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("managed url created",
		"managed_url_id", row.Resource.ID, "workspace_id", workspaceID, "type", u.Type)
	return row, nil
}

// DeleteManagedURL soft-deletes a managed URL.
func (s *Service) DeleteManagedURL(ctx context.Context, caller domain.Caller, id string) error {
	res, err := s.resources.Get(ctx, id)
	if err != nil {
		return err
	}
	if res.Kind != domain.KindManagedURL || res.Deleted() {
		return domain.ErrNotFound("managed url %s not found", id)
	}
	if err := s.authorize(ctx, caller, res.Path.String(), domain.PermManagedURLDelete); err != nil {
		return err
	}
	if err := s.resources.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return err
	}
	s.logger.Info("managed url deleted", "managed_url_id", id)
	return nil
}
