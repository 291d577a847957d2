package oidc

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMapPrivileges(t *testing.T) {
	mapping := RoleMapping{AdminRole: "app-admin", ViewRole: "app-view"}

	tests := []struct {
		name   string
		claims Claims
		want   Privileges
		ok     bool
	}{
		{"no realm claim", Claims{}, Privileges{}, false},
		{"admin", Claims{RealmAccess: &RealmAccess{Roles: []string{"offline_access", "app-admin"}}}, Privileges{IsStaff: true, IsSuperuser: true}, true},
		{"admin wins over view", Claims{RealmAccess: &RealmAccess{Roles: []string{"app-view", "app-admin"}}}, Privileges{IsStaff: true, IsSuperuser: true}, true},
		{"view", Claims{RealmAccess: &RealmAccess{Roles: []string{"app-view"}}}, Privileges{IsStaff: true}, true},
		{"no matching role", Claims{RealmAccess: &RealmAccess{Roles: []string{"uma_authorization"}}}, Privileges{}, true},
		{"empty roles", Claims{RealmAccess: &RealmAccess{}}, Privileges{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapPrivileges(tt.claims, mapping)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapPrivilegesDefaults(t *testing.T) {
	got, ok := MapPrivileges(Claims{RealmAccess: &RealmAccess{Roles: []string{"app-view"}}}, RoleMapping{})
	require.True(t, ok)
	assert.True(t, got.IsStaff)
	assert.False(t, got.IsSuperuser)
}

func TestEndSessionURL(t *testing.T) {
	p := &Provider{
		oauth2:        oauth2.Config{ClientID: "collegeerp"},
		endSessionURL: "http://kc/realms/college/protocol/openid-connect/logout",
		postLogoutURL: "http://localhost:8080/login",
	}

	u, err := url.Parse(p.EndSessionURL("raw-id-token"))
	require.NoError(t, err)
	assert.Equal(t, "/realms/college/protocol/openid-connect/logout", u.Path)
	assert.Equal(t, "collegeerp", u.Query().Get("client_id"))
	assert.Equal(t, "raw-id-token", u.Query().Get("id_token_hint"))
	assert.Equal(t, "http://localhost:8080/login", u.Query().Get("post_logout_redirect_uri"))

	p.endSessionURL = ""
	assert.Equal(t, "http://localhost:8080/login", p.EndSessionURL("x"))
}

func TestAuthCodeURLCarriesStateAndNonce(t *testing.T) {
	p := &Provider{oauth2: oauth2.Config{
		ClientID:    "collegeerp",
		RedirectURL: "http://localhost:8080/oidc/callback",
		Endpoint:    oauth2.Endpoint{AuthURL: "http://kc/auth", TokenURL: "http://kc/token"},
		Scopes:      []string{"openid"},
	}}

	u, err := url.Parse(p.AuthCodeURL("signed-state", "n-1"))
	require.NoError(t, err)
	assert.Equal(t, "signed-state", u.Query().Get("state"))
	assert.Equal(t, "n-1", u.Query().Get("nonce"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
}

func TestClaimsUsername(t *testing.T) {
	c := Claims{PreferredUsername: "  asha "}
	assert.Equal(t, "asha", c.Username())
}
