// Package api provides the HTTP handlers for the platform REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"paasd/internal/domain"
	"paasd/internal/service/authz"
	"paasd/internal/service/infra"
)

// Handler exposes the authorization and resource services over HTTP. All
// routes require an authenticated caller in the request context; denial
// of access to a specific resource is reported as 404 so absence and
// denial are indistinguishable.
type Handler struct {
	authz  *authz.Service
	infra  *infra.Service
	grants domain.GrantStore
	logger *slog.Logger
}

// NewHandler creates a Handler over the platform services.
func NewHandler(authzSvc *authz.Service, infraSvc *infra.Service, grants domain.GrantStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		authz:  authzSvc,
		infra:  infraSvc,
		grants: grants,
		logger: logger.With("component", "api"),
	}
}

// Routes mounts every endpoint on a fresh router. The caller wraps it
// with the middleware chain (request id, rate limit, auth).
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
		r.Get("/deployments", h.listDeployments)
		r.Post("/deployments", h.createDeployment)
		r.Get("/managed-urls", h.listManagedURLs)
		r.Post("/managed-urls", h.createManagedURL)
		r.Get("/resources/{kind}", h.listResources)
	})

	r.Patch("/deployments/{deploymentID}/status", h.updateDeploymentStatus)
	r.Delete("/deployments/{deploymentID}", h.deleteDeployment)
	r.Delete("/managed-urls/{managedURLID}", h.deleteManagedURL)

	r.Post("/permissions/check", h.checkPermission)

	r.Post("/grants", h.createGrant)
	r.Delete("/grants", h.revokeGrant)
	r.Get("/groups/{groupID}/grants", h.listGroupGrants)

	return r
}

// caller pulls the authenticated caller out of the context. The auth
// middleware guarantees presence; a miss means a wiring bug, reported as
// 401 rather than a panic.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c, ok := domain.CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code: http.StatusUnauthorized, Message: "authentication required",
		})
	}
	return c, ok
}

// --- response shapes ---

type listResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     uint  `json:"page"`
	PageSize int   `json:"page_size"`
}

type deploymentResponse struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	ImageName   string     `json:"image_name"`
	ImageTag    string     `json:"image_tag"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func deploymentToAPI(d domain.DeploymentRow) deploymentResponse {
	return deploymentResponse{
		ID:          d.ID,
		WorkspaceID: d.WorkspaceID,
		Name:        d.Name,
		Path:        d.Path.String(),
		ImageName:   d.ImageName,
		ImageTag:    d.ImageTag,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
		DeletedAt:   d.DeletedAt,
	}
}

type managedURLResponse struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	SubDomain    string    `json:"sub_domain"`
	DomainID     string    `json:"domain_id"`
	URLPath      string    `json:"url_path"`
	Type         string    `json:"type"`
	DeploymentID *string   `json:"deployment_id,omitempty"`
	Port         *uint16   `json:"port,omitempty"`
	StaticSiteID *string   `json:"static_site_id,omitempty"`
	URL          *string   `json:"url,omitempty"`
	RedirectTo   *string   `json:"redirect_to,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func managedURLToAPI(m domain.ManagedURLRow) managedURLResponse {
	return managedURLResponse{
		ID:           m.Resource.ID,
		WorkspaceID:  m.Resource.WorkspaceID,
		Name:         m.Resource.Name,
		Path:         m.Resource.Path.String(),
		SubDomain:    m.SubDomain,
		DomainID:     m.DomainID,
		URLPath:      m.ManagedURL.Path,
		Type:         string(m.Type),
		DeploymentID: m.DeploymentID,
		Port:         m.Port,
		StaticSiteID: m.StaticSiteID,
		URL:          m.URL,
		RedirectTo:   m.RedirectTo,
		CreatedAt:    m.Resource.CreatedAt,
	}
}

type resourceResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}

func resourceToAPI(res domain.Resource) resourceResponse {
	return resourceResponse{
		ID:          res.ID,
		WorkspaceID: res.WorkspaceID,
		Kind:        string(res.Kind),
		Name:        res.Name,
		Path:        res.Path.String(),
		CreatedAt:   res.CreatedAt,
	}
}

type grantResponse struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	PathPrefix string    `json:"path_prefix"`
	Permission string    `json:"permission"`
	GrantedBy  *string   `json:"granted_by,omitempty"`
	GrantedAt  time.Time `json:"granted_at"`
}

func grantToAPI(g domain.Grant) grantResponse {
	return grantResponse{
		ID:         g.ID,
		GroupID:    g.GroupID,
		PathPrefix: g.PathPrefix,
		Permission: g.Permission,
		GrantedBy:  g.GrantedBy,
		GrantedAt:  g.GrantedAt,
	}
}

// --- listings ---

func (h *Handler) listDeployments(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	page := pageFromQuery(r)

	result, err := h.authz.ListDeployments(r.Context(), caller, chi.URLParam(r, "workspaceID"), page)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]deploymentResponse, 0, len(result.Items))
	for _, d := range result.Items {
		items = append(items, deploymentToAPI(d))
	}
	writeJSON(w, http.StatusOK, listResponse[deploymentResponse]{
		Items: items, Total: result.Total, Page: page.Page, PageSize: page.Limit(),
	})
}

func (h *Handler) listManagedURLs(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	page := pageFromQuery(r)

	result, err := h.authz.ListManagedURLs(r.Context(), caller, chi.URLParam(r, "workspaceID"), page)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]managedURLResponse, 0, len(result.Items))
	for _, m := range result.Items {
		items = append(items, managedURLToAPI(m))
	}
	writeJSON(w, http.StatusOK, listResponse[managedURLResponse]{
		Items: items, Total: result.Total, Page: page.Page, PageSize: page.Limit(),
	})
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	page := pageFromQuery(r)
	kind := domain.ResourceKind(chi.URLParam(r, "kind"))

	result, err := h.authz.ListResources(r.Context(), caller, chi.URLParam(r, "workspaceID"), kind, page)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]resourceResponse, 0, len(result.Items))
	for _, res := range result.Items {
		items = append(items, resourceToAPI(res))
	}
	writeJSON(w, http.StatusOK, listResponse[resourceResponse]{
		Items: items, Total: result.Total, Page: page.Page, PageSize: page.Limit(),
	})
}

// --- deployments ---

type createDeploymentRequest struct {
	Name      string `json:"name"`
	ImageName string `json:"image_name"`
	ImageTag  string `json:"image_tag"`
}

func (h *Handler) createDeployment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createDeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	row, err := h.infra.CreateDeployment(r.Context(), caller,
		chi.URLParam(r, "workspaceID"), req.Name, req.ImageName, req.ImageTag)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deploymentToAPI(*row))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateDeploymentStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	row, err := h.infra.UpdateDeploymentStatus(r.Context(), caller,
		chi.URLParam(r, "deploymentID"), domain.DeploymentStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deploymentToAPI(*row))
}

func (h *Handler) deleteDeployment(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.infra.DeleteDeployment(r.Context(), caller, chi.URLParam(r, "deploymentID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- managed urls ---

type createManagedURLRequest struct {
	Name      string `json:"name"`
	SubDomain string `json:"sub_domain"`
	DomainID  string `json:"domain_id"`
	Path      string `json:"path"`
	Type      string `json:"type"`

	DeploymentID *string `json:"deployment_id,omitempty"`
	Port         *uint16 `json:"port,omitempty"`
	StaticSiteID *string `json:"static_site_id,omitempty"`
	URL          *string `json:"url,omitempty"`
	RedirectTo   *string `json:"redirect_to,omitempty"`
}

func (h *Handler) createManagedURL(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createManagedURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	u := &domain.ManagedURL{
		SubDomain:    req.SubDomain,
		DomainID:     req.DomainID,
		Path:         req.Path,
		Type:         domain.ManagedURLType(req.Type),
		DeploymentID: req.DeploymentID,
		Port:         req.Port,
		StaticSiteID: req.StaticSiteID,
		URL:          req.URL,
		RedirectTo:   req.RedirectTo,
	}
	if err := u.Validate(); err != nil {
		writeError(w, err)
		return
	}

	row, err := h.infra.CreateManagedURL(r.Context(), caller,
		chi.URLParam(r, "workspaceID"), req.Name, u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, managedURLToAPI(*row))
}

func (h *Handler) deleteManagedURL(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.infra.DeleteManagedURL(r.Context(), caller, chi.URLParam(r, "managedURLID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- permissions ---

type checkPermissionRequest struct {
	Path       string `json:"path"`
	Permission string `json:"permission"`
}

type checkPermissionResponse struct {
	Allowed bool `json:"allowed"`
}

func (h *Handler) checkPermission(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req checkPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	allowed, err := h.authz.Allowed(r.Context(), caller, req.Path, req.Permission)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkPermissionResponse{Allowed: allowed})
}

// --- grants (administrative) ---

type grantRequest struct {
	GroupID    string `json:"group_id"`
	PathPrefix string `json:"path_prefix"`
	Permission string `json:"permission"`
}

func (h *Handler) createGrant(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	created, err := h.authz.Grant(r.Context(), caller, req.GroupID, req.PathPrefix, req.Permission)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grantToAPI(*created))
}

func (h *Handler) revokeGrant(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	if err := h.authz.Revoke(r.Context(), caller, req.GroupID, req.PathPrefix, req.Permission); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGroupGrants(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if !caller.SuperAdmin {
		writeError(w, domain.ErrAccessDenied("listing grants requires super-admin"))
		return
	}
	page := pageFromQuery(r)

	grants, total, err := h.grants.ListForGroup(r.Context(), chi.URLParam(r, "groupID"), page)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		items = append(items, grantToAPI(g))
	}
	writeJSON(w, http.StatusOK, listResponse[grantResponse]{
		Items: items, Total: total, Page: page.Page, PageSize: page.Limit(),
	})
}
