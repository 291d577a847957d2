package oidc

import "strings"

// Claims are the ID token claims used to provision a local user
type Claims struct {
	Subject           string       `json:"sub"`
	PreferredUsername string       `json:"preferred_username"`
	Email             string       `json:"email"`
	GivenName         string       `json:"given_name"`
	FamilyName        string       `json:"family_name"`
	Nonce             string       `json:"nonce"`
	RealmAccess       *RealmAccess `json:"realm_access,omitempty"`
}

// RealmAccess is Keycloak's realm role claim
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Username returns the trimmed preferred_username
func (c *Claims) Username() string {
	return strings.TrimSpace(c.PreferredUsername)
}

// RoleMapping names the realm roles that grant local privileges
type RoleMapping struct {
	AdminRole string
	ViewRole  string
}

// DefaultRoleMapping is used when no roles are configured
var DefaultRoleMapping = RoleMapping{AdminRole: "app-admin", ViewRole: "app-view"}

// Privileges are the local flags derived from realm roles
type Privileges struct {
	IsStaff     bool
	IsSuperuser bool
}

// MapPrivileges derives local flags from the realm roles of claims.
// ok is false when the token carries no realm_access claim, in which
// case existing flags must be left as they are.
func MapPrivileges(claims Claims, mapping RoleMapping) (Privileges, bool) {
	if claims.RealmAccess == nil {
		return Privileges{}, false
	}
	if mapping.AdminRole == "" {
		mapping.AdminRole = DefaultRoleMapping.AdminRole
	}
	if mapping.ViewRole == "" {
		mapping.ViewRole = DefaultRoleMapping.ViewRole
	}

	var admin, view bool
	for _, role := range claims.RealmAccess.Roles {
		switch role {
		case mapping.AdminRole:
			admin = true
		case mapping.ViewRole:
			view = true
		}
	}

	switch {
	case admin:
		return Privileges{IsStaff: true, IsSuperuser: true}, true
	case view:
		return Privileges{IsStaff: true}, true
	default:
		return Privileges{}, true
	}
}
