package domain

// Permission name constants. Names follow the `<category>::<action>`
// convention used in grant records and access tokens.
const (
	PermDeployerCreate = "deployer::create"
	PermDeployerView   = "deployer::view"
	PermDeployerUpdate = "deployer::update"
	PermDeployerStart  = "deployer::start"
	PermDeployerStop   = "deployer::stop"
	PermDeployerDelete = "deployer::delete"

	PermManagedURLCreate = "managedUrl::create"
	PermManagedURLView   = "managedUrl::view"
	PermManagedURLUpdate = "managedUrl::update"
	PermManagedURLDelete = "managedUrl::delete"

	PermDomainAdd    = "domain::add"
	PermDomainView   = "domain::view"
	PermDomainVerify = "domain::verify"
	PermDomainDelete = "domain::delete"

	PermStaticSiteCreate = "staticSite::create"
	PermStaticSiteView   = "staticSite::view"
	PermStaticSiteUpdate = "staticSite::update"
	PermStaticSiteDelete = "staticSite::delete"

	PermRegistryPush = "dockerRegistry::push"
	PermRegistryPull = "dockerRegistry::pull"
)

// SuperAdminGroupID is the sentinel group id that bypasses all grant
// checks. Membership is detected once during group-set normalization at
// token verification time, never compared inline at call sites.
const SuperAdminGroupID = "00000000-0000-0000-0000-000000000000"

var knownPermissions = map[string]struct{}{
	PermDeployerCreate:   {},
	PermDeployerView:     {},
	PermDeployerUpdate:   {},
	PermDeployerStart:    {},
	PermDeployerStop:     {},
	PermDeployerDelete:   {},
	PermManagedURLCreate: {},
	PermManagedURLView:   {},
	PermManagedURLUpdate: {},
	PermManagedURLDelete: {},
	PermDomainAdd:        {},
	PermDomainView:       {},
	PermDomainVerify:     {},
	PermDomainDelete:     {},
	PermStaticSiteCreate: {},
	PermStaticSiteView:   {},
	PermStaticSiteUpdate: {},
	PermStaticSiteDelete: {},
	PermRegistryPush:     {},
	PermRegistryPull:     {},
}

// KnownPermission reports whether name is part of the permission catalog.
// Authorization checks against unknown names simply find no grants; this
// predicate exists for write-path validation (granting).
func KnownPermission(name string) bool {
	_, ok := knownPermissions[name]
	return ok
}

// Permissions returns the full permission catalog.
func Permissions() []string {
	out := make([]string, 0, len(knownPermissions))
	for name := range knownPermissions {
		out = append(out, name)
	}
	return out
}

// ViewPermission returns the permission gating read access to resources
// of the given kind. Repositories are gated by pull; there is no
// dedicated dockerRegistry view name.
func ViewPermission(kind ResourceKind) string {
	switch kind {
	case KindDeployment:
		return PermDeployerView
	case KindManagedURL:
		return PermManagedURLView
	case KindStaticSite:
		return PermStaticSiteView
	case KindDomain:
		return PermDomainView
	case KindRepository:
		return PermRegistryPull
	}
	return ""
}

// NormalizeGroups splits the super-admin sentinel out of a raw group-id
// set. The returned slice preserves order and contains no sentinel.
func NormalizeGroups(raw []string) (groups []string, superAdmin bool) {
	groups = make([]string, 0, len(raw))
	for _, g := range raw {
		if g == SuperAdminGroupID {
			superAdmin = true
			continue
		}
		groups = append(groups, g)
	}
	return groups, superAdmin
}
