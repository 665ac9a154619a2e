package repository

import (
	"context"
	"database/sql"
	"time"

	"paasd/internal/domain"
)

var _ domain.WorkspaceStore = (*WorkspaceRepo)(nil)

// WorkspaceRepo implements domain.WorkspaceStore using SQLite.
type WorkspaceRepo struct {
	db *sql.DB
}

// NewWorkspaceRepo creates a new WorkspaceRepo.
func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// CreateWorkspace creates a workspace with its super-admin principal.
func (r *WorkspaceRepo) CreateWorkspace(ctx context.Context, name, superAdminID string) (*domain.Workspace, error) {
	if name == "" {
		return nil, domain.ErrValidation("workspace name must not be empty")
	}
	ws := &domain.Workspace{
		ID:           domain.NewID(),
		Name:         name,
		SuperAdminID: superAdminID,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace (id, name, super_admin_id, created_at) VALUES (?, ?, ?, ?)`,
		ws.ID, ws.Name, ws.SuperAdminID, ws.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return ws, nil
}

// GetWorkspaceByName looks up a workspace by its unique name.
func (r *WorkspaceRepo) GetWorkspaceByName(ctx context.Context, name string) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, super_admin_id, created_at FROM workspace WHERE name = ?`, name).
		Scan(&ws.ID, &ws.Name, &ws.SuperAdminID, &ws.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &ws, nil
}

// CreateGroup creates a group within a workspace.
func (r *WorkspaceRepo) CreateGroup(ctx context.Context, workspaceID, name string) (*domain.Group, error) {
	if name == "" {
		return nil, domain.ErrValidation("group name must not be empty")
	}
	g := &domain.Group{
		ID:          domain.NewID(),
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_group (id, workspace_id, name, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.WorkspaceID, g.Name, g.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return g, nil
}

// GetGroupByName looks up a group by name within a workspace.
func (r *WorkspaceRepo) GetGroupByName(ctx context.Context, workspaceID, name string) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, created_at FROM user_group WHERE workspace_id = ? AND name = ?`,
		workspaceID, name).
		Scan(&g.ID, &g.WorkspaceID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}
