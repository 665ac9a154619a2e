package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"paasd/internal/domain"
)

// seedDocument is the declarative startup state: workspaces with their
// groups, grants, and resources. Applying it is idempotent — rows that
// already exist (matched by name) are left untouched.
type seedDocument struct {
	Workspaces []seedWorkspace `yaml:"workspaces"`
}

type seedWorkspace struct {
	Name       string `yaml:"name"`
	SuperAdmin string `yaml:"super_admin"`

	Groups      []seedGroup      `yaml:"groups"`
	Deployments []seedDeployment `yaml:"deployments"`
}

type seedGroup struct {
	Name   string      `yaml:"name"`
	Grants []seedGrant `yaml:"grants"`
}

type seedGrant struct {
	// Prefix is relative to the workspace: empty means the workspace
	// itself, "deployer" means the category, "deployer/<name>" is not
	// supported — instance grants are made through the API once ids
	// exist.
	Prefix     string `yaml:"prefix"`
	Permission string `yaml:"permission"`
}

type seedDeployment struct {
	Name      string `yaml:"name"`
	ImageName string `yaml:"image_name"`
	ImageTag  string `yaml:"image_tag"`
}

// SeedFromFile loads a YAML seed document and applies it.
func (a *App) SeedFromFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return err
	}
	var doc seedDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse seed document: %w", err)
	}
	return a.Seed(ctx, &doc)
}

// Seed applies a seed document idempotently.
func (a *App) Seed(ctx context.Context, doc *seedDocument) error {
	for _, sw := range doc.Workspaces {
		if err := a.seedWorkspace(ctx, sw); err != nil {
			return fmt.Errorf("seed workspace %q: %w", sw.Name, err)
		}
	}
	return nil
}

func (a *App) seedWorkspace(ctx context.Context, sw seedWorkspace) error {
	ws, err := a.Workspace.GetWorkspaceByName(ctx, sw.Name)
	if domain.IsNotFoundError(err) {
		ws, err = a.Workspace.CreateWorkspace(ctx, sw.Name, sw.SuperAdmin)
	}
	if err != nil {
		return err
	}

	for _, sg := range sw.Groups {
		group, err := a.Workspace.GetGroupByName(ctx, ws.ID, sg.Name)
		if domain.IsNotFoundError(err) {
			group, err = a.Workspace.CreateGroup(ctx, ws.ID, sg.Name)
		}
		if err != nil {
			return err
		}

		for _, grant := range sg.Grants {
			prefix := ws.ID
			if grant.Prefix != "" {
				prefix = ws.ID + domain.PathSeparator + grant.Prefix
			}
			_, err := a.Grants.Grant(ctx, &domain.Grant{
				GroupID:    group.ID,
				PathPrefix: prefix,
				Permission: grant.Permission,
			})
			if err != nil && !domain.IsConflictError(err) {
				return err
			}
		}
	}

	for _, sd := range sw.Deployments {
		exists, err := a.deploymentExists(ctx, ws.ID, sd.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := a.Resources.CreateDeployment(ctx, ws.ID, sd.Name, sd.ImageName, sd.ImageTag); err != nil {
			return err
		}
	}
	return nil
}

// deploymentExists checks by name within the workspace. Seed documents
// are small; scanning the first page with a super-admin listing is
// enough.
func (a *App) deploymentExists(ctx context.Context, workspaceID, name string) (bool, error) {
	page, err := a.Resources.ListVisibleDeployments(ctx, workspaceID,
		nil, true, domain.PermDeployerView, domain.PageRequest{PageSize: 500})
	if err != nil {
		return false, err
	}
	for _, d := range page.Items {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}
