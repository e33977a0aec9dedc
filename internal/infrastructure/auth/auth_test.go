package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Hierarchy(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleUser, PermCheck, true},
		{RoleUser, PermReport, true},
		{RoleUser, PermViewAnalytics, false},
		{RoleUser, PermManageRegistry, false},
		{RoleOrganisation, PermCheck, true},
		{RoleOrganisation, PermBulkCheck, true},
		{RoleOrganisation, PermViewAnalytics, true},
		{RoleOrganisation, PermManageRegistry, false},
		{RoleAdmin, PermCheck, true},
		{RoleAdmin, PermViewAnalytics, true},
		{RoleAdmin, PermManageRegistry, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.Has(tt.perm), "%s / %s", tt.role, tt.perm)
	}
}

func TestRole_UnknownRoleHasNothing(t *testing.T) {
	assert.False(t, Role("superuser").Has(PermCheck))
	assert.False(t, Role("superuser").IsValid())
}

func TestRole_Quota(t *testing.T) {
	assert.Equal(t, 5, RoleUser.Quota(5, 100))
	assert.Equal(t, 100, RoleOrganisation.Quota(5, 100))
	assert.Equal(t, 0, RoleAdmin.Quota(5, 100))
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "org@exemple.fr", RoleOrganisation)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "org@exemple.fr", claims.Email)
	assert.Equal(t, RoleOrganisation, claims.Role)
	assert.True(t, claims.ExpireAt.After(time.Now()))
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(uuid.New(), "", RoleUser)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "", RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_RejectsUnknownRole(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.GenerateToken(uuid.New(), "", Role("superuser"))
	assert.Error(t, err)
}
