package models

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrincipal(t *testing.T) {
	roles := []string{RoleAdmin}
	p := NewPrincipal("admin", roles...)

	assert.Equal(t, "admin", p.Username)
	assert.Equal(t, []string{RoleAdmin}, p.Roles)

	roles[0] = "MUTATED"
	assert.Equal(t, RoleAdmin, p.Roles[0])
}

func TestPrincipal_HasRole(t *testing.T) {
	p := NewPrincipal("admin", RoleAdmin, "AUDITOR")

	assert.True(t, p.HasRole(RoleAdmin))
	assert.True(t, p.HasAnyRole("VIEWER", "AUDITOR"))
	assert.False(t, p.HasRole("admin"))
	assert.False(t, p.HasAnyRole())

	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.HasRole(RoleAdmin))
}

func TestCredentials_Redacted(t *testing.T) {
	creds := Credentials{Username: "admin", Password: "1234"}

	assert.NotContains(t, fmt.Sprint(creds), "1234")
	assert.NotContains(t, fmt.Sprintf("%+v", creds), "1234")
	assert.NotContains(t, fmt.Sprintf("%#v", creds), "1234")
	assert.Contains(t, fmt.Sprint(creds), "admin")
}

func TestUser(t *testing.T) {
	user := NewUser("admin", "$2a$10$hash", RoleAdmin)

	assert.Equal(t, "principals", user.TableName())
	assert.True(t, user.IsAdmin())
	assert.False(t, user.CreatedAt.IsZero())

	p := user.Principal()
	assert.Equal(t, "admin", p.Username)
	assert.Equal(t, []string{RoleAdmin}, p.Roles)

	t.Run("password hash is not serialized", func(t *testing.T) {
		data, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "$2a$10$hash")
		assert.NotContains(t, string(data), "password")
	})
}
