package auth

import (
	"testing"
	"time"

	"salespulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSessionRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	session := &Session{
		UserID:    1,
		Username:  "admin",
		Role:      models.RoleAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}

	token, err := SignSession(testSecret, session)
	require.NoError(t, err)

	parsed := ParseToken(testSecret, token)
	require.NotNil(t, parsed)
	assert.Equal(t, session.UserID, parsed.UserID)
	assert.Equal(t, session.Username, parsed.Username)
	assert.Equal(t, session.Role, parsed.Role)
	assert.Equal(t, session.ExpiresAt, parsed.ExpiresAt)
}

func TestSessionTTLIsEightHours(t *testing.T) {
	assert.Equal(t, 8*time.Hour, SessionTTL)
}

func TestExpiredTokenReadsAsNoSession(t *testing.T) {
	created := time.Now().UTC().Add(-9 * time.Hour)
	session := &Session{
		UserID:    1,
		Username:  "admin",
		Role:      models.RoleAdmin,
		CreatedAt: created,
		ExpiresAt: created.Add(SessionTTL),
	}
	token, err := SignSession(testSecret, session)
	require.NoError(t, err)

	assert.Nil(t, ParseToken(testSecret, token))
}

func TestTamperedTokenRejected(t *testing.T) {
	now := time.Now().UTC()
	session := &Session{UserID: 1, Username: "admin", Role: models.RoleAdmin,
		CreatedAt: now, ExpiresAt: now.Add(SessionTTL)}
	token, err := SignSession(testSecret, session)
	require.NoError(t, err)

	assert.Nil(t, ParseToken("other-secret", token))
	assert.Nil(t, ParseToken(testSecret, token+"x"))
	assert.Nil(t, ParseToken(testSecret, "not-a-token"))
}

func TestPermissionContainment(t *testing.T) {
	// Every assessor permission is held by the coordinator, every
	// coordinator permission by the admin.
	for _, perm := range Permissions(models.RoleAssessor) {
		assert.True(t, HasPermission(models.RoleCoordinator, perm), perm)
	}
	for _, perm := range Permissions(models.RoleCoordinator) {
		assert.True(t, HasPermission(models.RoleAdmin, perm), perm)
	}
}

func TestAssessorLacksExport(t *testing.T) {
	assert.True(t, HasPermission(models.RoleAdmin, PermExport))
	assert.True(t, HasPermission(models.RoleCoordinator, PermExport))
	assert.False(t, HasPermission(models.RoleAssessor, PermExport))
	assert.True(t, HasPermission(models.RoleAssessor, PermViewRecommendations))
}

func TestUnknownRoleHasNothing(t *testing.T) {
	assert.False(t, HasPermission("intern", PermViewSummary))
	assert.Empty(t, Permissions("intern"))
}
