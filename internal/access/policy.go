package access

import (
	"path"
	"strings"

	"enscho/internal/models"
)

type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Reasons are stable strings used as metric labels and in tests.
const (
	ReasonPublic          = "public"
	ReasonLoginPage       = "login_page"
	ReasonAlreadyAdmin    = "already_admin"
	ReasonAdmin           = "admin"
	ReasonAllowList       = "allow_list"
	ReasonPortalRole      = "portal_role"
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
)

func (o Outcome) String() string {
	if o == Allow {
		return "allow"
	}
	return "redirect"
}

type Decision struct {
	Outcome  Outcome
	Location string
	Reason   string
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

func allow(reason string) Decision {
	return Decision{Outcome: Allow, Reason: reason}
}

func redirect(location, reason string) Decision {
	return Decision{Outcome: Redirect, Location: location, Reason: reason}
}

// PortalRule guards one role-scoped area such as /guru.
type PortalRule struct {
	Prefix    string
	Role      models.Role
	LoginPath string
}

// Policy is the single table describing the protected areas of the site.
type Policy struct {
	AdminPrefix    string
	AdminLoginPath string
	// AdminAllowList maps a non-admin role to the first path segments under
	// AdminPrefix it may open.
	AdminAllowList map[models.Role][]string
	Portals        []PortalRule
}

func DefaultPolicy() *Policy {
	return &Policy{
		AdminPrefix:    "/admin",
		AdminLoginPath: "/admin/login",
		AdminAllowList: map[models.Role][]string{
			models.RoleTeacher: {"posts", "pages", "jurusan", "gallery"},
			models.RoleAlumni:  {"posts", "pages"},
			models.RoleStudent: {"gallery"},
		},
		Portals: []PortalRule{
			{Prefix: "/guru", Role: models.RoleTeacher, LoginPath: "/login/guru"},
			{Prefix: "/siswa", Role: models.RoleStudent, LoginPath: "/login/siswa"},
			{Prefix: "/alumni", Role: models.RoleAlumni, LoginPath: "/login/alumni"},
		},
	}
}

// Evaluate decides whether a request for urlPath may continue. Rules are
// checked top to bottom and the first match wins.
func (p *Policy) Evaluate(urlPath string, id Identity) Decision {
	clean := cleanPath(urlPath)

	if clean == p.AdminLoginPath {
		if id.IsAdmin() {
			return redirect(p.AdminPrefix, ReasonAlreadyAdmin)
		}
		return allow(ReasonLoginPage)
	}

	if hasPrefix(clean, p.AdminPrefix) {
		return p.evaluateAdmin(clean, id)
	}

	for _, rule := range p.Portals {
		if hasPrefix(clean, rule.Prefix) {
			return evaluatePortal(rule, id)
		}
	}

	return allow(ReasonPublic)
}

func (p *Policy) evaluateAdmin(clean string, id Identity) Decision {
	if id.IsAdmin() {
		return allow(ReasonAdmin)
	}

	role := id.Role()
	if p.AdminSectionAllowed(role, AdminSection(clean, p.AdminPrefix)) {
		return allow(ReasonAllowList)
	}

	if id.Anonymous() {
		return redirect(p.AdminLoginPath, ReasonUnauthenticated)
	}
	if portal := role.Portal(); portal != "" {
		return redirect("/"+portal, ReasonForbidden)
	}
	return redirect("/", ReasonForbidden)
}

func evaluatePortal(rule PortalRule, id Identity) Decision {
	if id.IsAdmin() {
		return allow(ReasonAdmin)
	}
	if !id.HasToken {
		return redirect(rule.LoginPath, ReasonUnauthenticated)
	}
	if id.Token.Role == rule.Role {
		return allow(ReasonPortalRole)
	}
	return redirect("/", ReasonForbidden)
}

// AdminSectionAllowed reports whether role may open the given admin
// section. Admins may open everything.
func (p *Policy) AdminSectionAllowed(role models.Role, section string) bool {
	if role == models.RoleAdmin {
		return true
	}
	if section == "" {
		return false
	}
	for _, s := range p.AdminAllowList[role] {
		if s == section {
			return true
		}
	}
	return false
}

// AdminSection returns the first path segment below prefix:
// "/admin/posts/create" -> "posts", "/admin" -> "".
func AdminSection(clean, prefix string) string {
	rest := strings.TrimPrefix(clean, prefix)
	rest = strings.TrimPrefix(rest, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}

// hasPrefix matches whole path segments only: "/guru" matches "/guru" and
// "/guru/profile" but not "/gurunya".
func hasPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
