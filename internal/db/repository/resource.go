package repository

import (
	"context"
	"database/sql"
	"time"

	"paasd/internal/domain"
)

var _ domain.ResourceStore = (*ResourceRepo)(nil)

// ResourceRepo implements domain.ResourceStore using SQLite. Mutations go
// through the single-connection write pool; visibility listings run on
// the read pool inside one transaction per page, so the page and its
// total reflect the same snapshot.
type ResourceRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewResourceRepo creates a new ResourceRepo over a write/read pool pair.
func NewResourceRepo(writeDB, readDB *sql.DB) *ResourceRepo {
	return &ResourceRepo{write: writeDB, read: readDB}
}

const resourceColumns = `r.id, r.workspace_id, r.kind, r.name, r.resource_path, r.created_at, r.deleted_at`

func scanResource(scan func(dest ...any) error) (*domain.Resource, error) {
	var (
		res       domain.Resource
		rawPath   string
		deletedAt sql.NullTime
	)
	if err := scan(&res.ID, &res.WorkspaceID, &res.Kind, &res.Name, &rawPath, &res.CreatedAt, &deletedAt); err != nil {
		return nil, err
	}
	path, err := domain.ParseResourcePath(rawPath)
	if err != nil {
		return nil, err
	}
	res.Path = path
	if deletedAt.Valid {
		t := deletedAt.Time
		res.DeletedAt = &t
	}
	return &res, nil
}

// visibilityClause returns the SQL fragment restricting resource rows to
// those the group set may see under permission, as an ancestor-or-self
// prefix join the engine can evaluate without per-row recursion.
// Super-admin callers short-circuit: no grant join at all.
//
// The descendant match is an exact substring comparison at a segment
// boundary, never LIKE: a stored prefix containing % or _ must match
// literally, the same way the resolver's batched IN-list lookup does.
func visibilityClause(superAdmin bool, groupIDs []string, permission string) (string, []any) {
	if superAdmin {
		return "", nil
	}
	clause := ` AND EXISTS (
		SELECT 1 FROM permission_grant g
		WHERE g.permission = ?
		  AND g.group_id IN (` + placeholders(len(groupIDs)) + `)
		  AND (r.resource_path = g.path_prefix
		       OR substr(r.resource_path, 1, length(g.path_prefix) + 2) = g.path_prefix || '::')
	)`
	args := append([]any{permission}, stringArgs(groupIDs)...)
	return clause, args
}

// emptyPage is the result for callers that can see nothing without a
// store round trip (no groups, not super-admin).
func emptyPage[T any]() *domain.ResourcePage[T] {
	return &domain.ResourcePage[T]{Items: []T{}, Total: 0}
}

// listVisible runs the count and page queries for one resource kind in a
// single read transaction. join and extraColumns let kind-specific
// listings pull their side-table columns through the same query shape.
func listVisible[T any](
	ctx context.Context,
	pool *sql.DB,
	workspaceID string,
	kind domain.ResourceKind,
	groupIDs []string,
	superAdmin bool,
	permission string,
	page domain.PageRequest,
	join string,
	extraColumns string,
	scanRow func(*sql.Rows) (T, error),
) (*domain.ResourcePage[T], error) {
	if !superAdmin && len(groupIDs) == 0 {
		return emptyPage[T](), nil
	}

	visClause, visArgs := visibilityClause(superAdmin, groupIDs, permission)
	where := ` WHERE r.workspace_id = ? AND r.kind = ? AND r.deleted_at IS NULL` + visClause
	baseArgs := append([]any{workspaceID, string(kind)}, visArgs...)

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only

	var total int64
	countQuery := `SELECT COUNT(1) FROM resource r` + join + where
	if err := tx.QueryRowContext(ctx, countQuery, baseArgs...).Scan(&total); err != nil {
		return nil, mapDBError(err)
	}

	pageQuery := `SELECT ` + resourceColumns + extraColumns +
		` FROM resource r` + join + where +
		` ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`
	args := append(append([]any{}, baseArgs...), page.Limit(), page.Offset())

	rows, err := tx.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scanRow(rows)
		if err != nil {
			return nil, mapDBError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}

	return &domain.ResourcePage[T]{Items: items, Total: total}, nil
}

// ListVisible returns the base-shape page for any resource kind.
func (r *ResourceRepo) ListVisible(ctx context.Context, workspaceID string, kind domain.ResourceKind, groupIDs []string, superAdmin bool, permission string, page domain.PageRequest) (*domain.ResourcePage[domain.Resource], error) {
	return listVisible(ctx, r.read, workspaceID, kind, groupIDs, superAdmin, permission, page,
		"", "",
		func(rows *sql.Rows) (domain.Resource, error) {
			res, err := scanResource(rows.Scan)
			if err != nil {
				return domain.Resource{}, err
			}
			return *res, nil
		})
}

// ListVisibleDeployments returns the deployment-variant page, with status
// decoded from the side table.
func (r *ResourceRepo) ListVisibleDeployments(ctx context.Context, workspaceID string, groupIDs []string, superAdmin bool, permission string, page domain.PageRequest) (*domain.ResourcePage[domain.DeploymentRow], error) {
	return listVisible(ctx, r.read, workspaceID, domain.KindDeployment, groupIDs, superAdmin, permission, page,
		` JOIN deployment d ON d.resource_id = r.id`,
		`, d.image_name, d.image_tag, d.status`,
		func(rows *sql.Rows) (domain.DeploymentRow, error) {
			var (
				row       domain.DeploymentRow
				rawPath   string
				deletedAt sql.NullTime
			)
			err := rows.Scan(
				&row.ID, &row.WorkspaceID, &row.Kind, &row.Name, &rawPath, &row.CreatedAt, &deletedAt,
				&row.ImageName, &row.ImageTag, &row.Status,
			)
			if err != nil {
				return domain.DeploymentRow{}, err
			}
			path, err := domain.ParseResourcePath(rawPath)
			if err != nil {
				return domain.DeploymentRow{}, err
			}
			row.Path = path
			if deletedAt.Valid {
				t := deletedAt.Time
				row.DeletedAt = &t
			}
			return row, nil
		})
}

// ListVisibleManagedURLs returns the managed-URL variant page. Decoding
// validates the variant invariant: a row whose irrelevant columns are set
// is rejected, not silently passed through.
func (r *ResourceRepo) ListVisibleManagedURLs(ctx context.Context, workspaceID string, groupIDs []string, superAdmin bool, permission string, page domain.PageRequest) (*domain.ResourcePage[domain.ManagedURLRow], error) {
	return listVisible(ctx, r.read, workspaceID, domain.KindManagedURL, groupIDs, superAdmin, permission, page,
		` JOIN managed_url m ON m.resource_id = r.id`,
		`, m.sub_domain, m.domain_id, m.path, m.url_type, m.deployment_id, m.port, m.static_site_id, m.url, m.redirect_to`,
		func(rows *sql.Rows) (domain.ManagedURLRow, error) {
			var (
				row          domain.ManagedURLRow
				rawPath      string
				deletedAt    sql.NullTime
				deploymentID sql.NullString
				port         sql.NullInt64
				staticSiteID sql.NullString
				target       sql.NullString
				redirectTo   sql.NullString
			)
			err := rows.Scan(
				&row.ID, &row.WorkspaceID, &row.Kind, &row.Name, &rawPath, &row.CreatedAt, &deletedAt,
				&row.SubDomain, &row.DomainID, &row.ManagedURL.Path, &row.Type,
				&deploymentID, &port, &staticSiteID, &target, &redirectTo,
			)
			if err != nil {
				return domain.ManagedURLRow{}, err
			}
			path, err := domain.ParseResourcePath(rawPath)
			if err != nil {
				return domain.ManagedURLRow{}, err
			}
			row.Resource.Path = path
			if deletedAt.Valid {
				t := deletedAt.Time
				row.DeletedAt = &t
			}
			if deploymentID.Valid {
				row.DeploymentID = &deploymentID.String
			}
			if port.Valid {
				p := uint16(port.Int64)
				row.Port = &p
			}
			if staticSiteID.Valid {
				row.StaticSiteID = &staticSiteID.String
			}
			if target.Valid {
				row.URL = &target.String
			}
			if redirectTo.Valid {
				row.RedirectTo = &redirectTo.String
			}
			if err := row.ManagedURL.Validate(); err != nil {
				return domain.ManagedURLRow{}, err
			}
			return row, nil
		})
}

// insertResource writes the base row inside tx and returns it.
func insertResource(ctx context.Context, tx *sql.Tx, workspaceID string, kind domain.ResourceKind, name string) (*domain.Resource, error) {
	if !kind.Valid() {
		return nil, domain.ErrValidation("unknown resource kind %q", kind)
	}
	if name == "" {
		return nil, domain.ErrValidation("resource name must not be empty")
	}

	res := &domain.Resource{
		ID:          domain.NewID(),
		WorkspaceID: workspaceID,
		Kind:        kind,
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	}
	path, err := domain.DeriveResourcePath(workspaceID, kind, res.ID)
	if err != nil {
		return nil, err
	}
	res.Path = path

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resource (id, workspace_id, kind, name, resource_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.WorkspaceID, string(res.Kind), res.Name, res.Path.String(), res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CreateResource creates a base-shape resource (domain, static site,
// repository — kinds without side-table columns).
func (r *ResourceRepo) CreateResource(ctx context.Context, workspaceID string, kind domain.ResourceKind, name string) (*domain.Resource, error) {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := insertResource(ctx, tx, workspaceID, kind, name)
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}
	return res, nil
}

// CreateDeployment creates a deployment resource with its variant row.
func (r *ResourceRepo) CreateDeployment(ctx context.Context, workspaceID, name, imageName, imageTag string) (*domain.DeploymentRow, error) {
	if imageName == "" || imageTag == "" {
		return nil, domain.ErrValidation("deployment requires image name and tag")
	}

	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := insertResource(ctx, tx, workspaceID, domain.KindDeployment, name)
	if err != nil {
		return nil, mapDBError(err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO deployment (resource_id, image_name, image_tag, status) VALUES (?, ?, ?, ?)`,
		res.ID, imageName, imageTag, string(domain.DeploymentCreated))
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}

	return &domain.DeploymentRow{
		Resource:  *res,
		ImageName: imageName,
		ImageTag:  imageTag,
		Status:    domain.DeploymentCreated,
	}, nil
}

// CreateManagedURL creates a managed-URL resource with its variant row.
// The variant invariant is enforced twice: here at construction and by
// the table CHECK constraint.
func (r *ResourceRepo) CreateManagedURL(ctx context.Context, workspaceID, name string, u *domain.ManagedURL) (*domain.ManagedURLRow, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := insertResource(ctx, tx, workspaceID, domain.KindManagedURL, name)
	if err != nil {
		return nil, mapDBError(err)
	}

	var port sql.NullInt64
	if u.Port != nil {
		port = sql.NullInt64{Int64: int64(*u.Port), Valid: true}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO managed_url
		 (resource_id, sub_domain, domain_id, path, url_type, deployment_id, port, static_site_id, url, redirect_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, u.SubDomain, u.DomainID, u.Path, string(u.Type),
		nullString(u.DeploymentID), port, nullString(u.StaticSiteID), nullString(u.URL), nullString(u.RedirectTo))
	if err != nil {
		return nil, mapDBError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, mapDBError(err)
	}

	return &domain.ManagedURLRow{Resource: *res, ManagedURL: *u}, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Get returns a resource by id, including soft-deleted rows (callers
// needing the visibility rules go through ListVisible or GetByPath).
func (r *ResourceRepo) Get(ctx context.Context, id string) (*domain.Resource, error) {
	row := r.read.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resource r WHERE r.id = ?`, id)
	res, err := scanResource(row.Scan)
	if err != nil {
		return nil, mapDBError(err)
	}
	return res, nil
}

// GetByPath returns the resource stored under the exact path, if any.
// Soft-deleted rows are returned with the marker set so the resolver can
// deny on them explicitly.
func (r *ResourceRepo) GetByPath(ctx context.Context, path string) (*domain.Resource, error) {
	row := r.read.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resource r WHERE r.resource_path = ?`, path)
	res, err := scanResource(row.Scan)
	if err != nil {
		return nil, mapDBError(err)
	}
	return res, nil
}

// SoftDelete sets the soft-delete marker. Idempotent on already-deleted
// rows; missing rows return NotFound.
func (r *ResourceRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	result, err := r.write.ExecContext(ctx,
		`UPDATE resource SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, at.UTC(), id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if affected == 0 {
		var exists bool
		if err := r.write.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM resource WHERE id = ?)`, id).Scan(&exists); err != nil {
			return mapDBError(err)
		}
		if !exists {
			return domain.ErrNotFound("resource %s not found", id)
		}
	}
	return nil
}

// GetDeployment returns the deployment variant row by resource id.
func (r *ResourceRepo) GetDeployment(ctx context.Context, id string) (*domain.DeploymentRow, error) {
	var (
		row       domain.DeploymentRow
		rawPath   string
		deletedAt sql.NullTime
	)
	err := r.read.QueryRowContext(ctx,
		`SELECT `+resourceColumns+`, d.image_name, d.image_tag, d.status
		 FROM resource r JOIN deployment d ON d.resource_id = r.id
		 WHERE r.id = ?`, id).
		Scan(&row.ID, &row.WorkspaceID, &row.Kind, &row.Name, &rawPath, &row.CreatedAt, &deletedAt,
			&row.ImageName, &row.ImageTag, &row.Status)
	if err != nil {
		return nil, mapDBError(err)
	}
	path, err := domain.ParseResourcePath(rawPath)
	if err != nil {
		return nil, err
	}
	row.Path = path
	if deletedAt.Valid {
		t := deletedAt.Time
		row.DeletedAt = &t
	}
	return &row, nil
}

// SetDeploymentStatus persists a new lifecycle status. Legality of the
// transition is certified by the caller via domain.CanTransition.
func (r *ResourceRepo) SetDeploymentStatus(ctx context.Context, id string, status domain.DeploymentStatus) error {
	if !status.Valid() {
		return domain.ErrValidation("unknown deployment status %q", status)
	}
	result, err := r.write.ExecContext(ctx,
		`UPDATE deployment SET status = ? WHERE resource_id = ?`, string(status), id)
	if err != nil {
		return mapDBError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if affected == 0 {
		return domain.ErrNotFound("deployment %s not found", id)
	}
	return nil
}

// PurgeDeletedBefore hard-deletes resources soft-deleted before cutoff.
// Variant rows go with them via ON DELETE CASCADE.
func (r *ResourceRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.write.ExecContext(ctx,
		`DELETE FROM resource WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, mapDBError(err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, mapDBError(err)
	}
	return purged, nil
}
