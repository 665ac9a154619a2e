package repository

import (
	"context"
	"database/sql"
	"time"

	"paasd/internal/domain"
)

var _ domain.GrantStore = (*GrantRepo)(nil)

// GrantRepo implements domain.GrantStore using SQLite.
type GrantRepo struct {
	db *sql.DB
}

// NewGrantRepo creates a new GrantRepo.
func NewGrantRepo(db *sql.DB) *GrantRepo {
	return &GrantRepo{db: db}
}

// AnyMatch reports whether any grant matches (any group) x (any prefix) x
// permission. One batched query regardless of path depth or group count;
// the grant-lookup index covers (permission, path_prefix, group_id).
func (r *GrantRepo) AnyMatch(ctx context.Context, groupIDs []string, prefixes []string, permission string) (bool, error) {
	if len(groupIDs) == 0 || len(prefixes) == 0 {
		return false, nil
	}

	query := `SELECT EXISTS (
		SELECT 1 FROM permission_grant
		WHERE permission = ?
		  AND group_id IN (` + placeholders(len(groupIDs)) + `)
		  AND path_prefix IN (` + placeholders(len(prefixes)) + `)
	)`

	args := make([]any, 0, 1+len(groupIDs)+len(prefixes))
	args = append(args, permission)
	args = append(args, stringArgs(groupIDs)...)
	args = append(args, stringArgs(prefixes)...)

	var found bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, mapDBError(err)
	}
	return found, nil
}

// Grant records a new (group, prefix, permission) grant.
func (r *GrantRepo) Grant(ctx context.Context, g *domain.Grant) (*domain.Grant, error) {
	if !domain.KnownPermission(g.Permission) {
		return nil, domain.ErrValidation("unknown permission %q", g.Permission)
	}
	if _, err := domain.ParseResourcePath(g.PathPrefix); err != nil {
		return nil, err
	}

	created := &domain.Grant{
		ID:         domain.NewID(),
		GroupID:    g.GroupID,
		PathPrefix: g.PathPrefix,
		Permission: g.Permission,
		GrantedBy:  g.GrantedBy,
		GrantedAt:  time.Now().UTC(),
	}

	grantedBy := sql.NullString{}
	if g.GrantedBy != nil {
		grantedBy = sql.NullString{String: *g.GrantedBy, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permission_grant (id, group_id, path_prefix, permission, granted_by, granted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.GroupID, created.PathPrefix, created.Permission, grantedBy, created.GrantedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return created, nil
}

// Revoke removes a grant by its compound key.
func (r *GrantRepo) Revoke(ctx context.Context, groupID, pathPrefix, permission string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM permission_grant WHERE group_id = ? AND path_prefix = ? AND permission = ?`,
		groupID, pathPrefix, permission)
	return mapDBError(err)
}

// ListForGroup returns a paginated list of the grants held by a group.
func (r *GrantRepo) ListForGroup(ctx context.Context, groupID string, page domain.PageRequest) ([]domain.Grant, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM permission_grant WHERE group_id = ?`, groupID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_id, path_prefix, permission, granted_by, granted_at
		 FROM permission_grant
		 WHERE group_id = ?
		 ORDER BY granted_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		groupID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var grants []domain.Grant
	for rows.Next() {
		var g domain.Grant
		var grantedBy sql.NullString
		if err := rows.Scan(&g.ID, &g.GroupID, &g.PathPrefix, &g.Permission, &grantedBy, &g.GrantedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		if grantedBy.Valid {
			g.GrantedBy = &grantedBy.String
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}
	return grants, total, nil
}
