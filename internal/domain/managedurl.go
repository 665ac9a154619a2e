package domain

// ManagedURLType discriminates the routing variants of a managed URL.
type ManagedURLType string

// Managed URL routing variants. Mutually exclusive: each variant carries
// only the fields relevant to it.
const (
	URLProxyToDeployment ManagedURLType = "proxy_to_deployment"
	URLProxyToStaticSite ManagedURLType = "proxy_to_static_site"
	URLProxy             ManagedURLType = "proxy_url"
	URLRedirect          ManagedURLType = "redirect"
)

// Valid reports whether t is a known managed URL type.
func (t ManagedURLType) Valid() bool {
	switch t {
	case URLProxyToDeployment, URLProxyToStaticSite, URLProxy, URLRedirect:
		return true
	}
	return false
}

// ManagedURL routes `<SubDomain>.<domain>/<Path>` to a variant-specific
// target. Construct through the New*URL constructors; fields irrelevant
// to the variant stay nil, enforced by Validate at construction and at
// row decode.
type ManagedURL struct {
	SubDomain string
	DomainID  string
	Path      string
	Type      ManagedURLType

	// proxy_to_deployment
	DeploymentID *string
	Port         *uint16

	// proxy_to_static_site
	StaticSiteID *string

	// proxy_url
	URL *string

	// redirect
	RedirectTo *string
}

// NewProxyToDeploymentURL constructs the proxy_to_deployment variant.
func NewProxyToDeploymentURL(subDomain, domainID, path, deploymentID string, port uint16) (*ManagedURL, error) {
	u := &ManagedURL{
		SubDomain:    subDomain,
		DomainID:     domainID,
		Path:         path,
		Type:         URLProxyToDeployment,
		DeploymentID: &deploymentID,
		Port:         &port,
	}
	return u, u.Validate()
}

// NewProxyToStaticSiteURL constructs the proxy_to_static_site variant.
func NewProxyToStaticSiteURL(subDomain, domainID, path, staticSiteID string) (*ManagedURL, error) {
	u := &ManagedURL{
		SubDomain:    subDomain,
		DomainID:     domainID,
		Path:         path,
		Type:         URLProxyToStaticSite,
		StaticSiteID: &staticSiteID,
	}
	return u, u.Validate()
}

// NewProxyURL constructs the proxy_url variant targeting an external URL.
func NewProxyURL(subDomain, domainID, path, target string) (*ManagedURL, error) {
	u := &ManagedURL{
		SubDomain: subDomain,
		DomainID:  domainID,
		Path:      path,
		Type:      URLProxy,
		URL:       &target,
	}
	return u, u.Validate()
}

// NewRedirectURL constructs the redirect variant.
func NewRedirectURL(subDomain, domainID, path, redirectTo string) (*ManagedURL, error) {
	u := &ManagedURL{
		SubDomain:  subDomain,
		DomainID:   domainID,
		Path:       path,
		Type:       URLRedirect,
		RedirectTo: &redirectTo,
	}
	return u, u.Validate()
}

// Validate enforces the variant mutual-exclusion invariant: the fields of
// the active variant are present and every other variant's fields are
// absent. A violation is a programming error surfaced immediately, not a
// runtime condition to recover from.
func (u *ManagedURL) Validate() error {
	if u.SubDomain == "" || u.DomainID == "" {
		return ErrValidation("managed URL requires sub-domain and domain id")
	}

	hasDeployment := u.DeploymentID != nil || u.Port != nil
	hasStaticSite := u.StaticSiteID != nil
	hasProxyURL := u.URL != nil
	hasRedirect := u.RedirectTo != nil

	var complete, exclusive bool
	switch u.Type {
	case URLProxyToDeployment:
		complete = u.DeploymentID != nil && u.Port != nil
		exclusive = !hasStaticSite && !hasProxyURL && !hasRedirect
	case URLProxyToStaticSite:
		complete = hasStaticSite
		exclusive = !hasDeployment && !hasProxyURL && !hasRedirect
	case URLProxy:
		complete = hasProxyURL
		exclusive = !hasDeployment && !hasStaticSite && !hasRedirect
	case URLRedirect:
		complete = hasRedirect
		exclusive = !hasDeployment && !hasStaticSite && !hasProxyURL
	default:
		return ErrValidation("unknown managed URL type %q", u.Type)
	}

	if !complete {
		return ErrValidation("managed URL type %q is missing its target fields", u.Type)
	}
	if !exclusive {
		return ErrValidation("managed URL type %q must not carry fields of another variant", u.Type)
	}
	return nil
}
