package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestSignAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	raw, exp, err := SignAccess(42, "a@x.com", "staff", accessSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := ParseAccess(raw, accessSecret)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "staff", claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestSignRefresh_SetsSubjectAndJTI(t *testing.T) {
	t.Parallel()

	raw, _, err := SignRefresh(7, refreshSecret, 24*time.Hour)
	require.NoError(t, err)

	claims, err := ParseRefresh(raw, refreshSecret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, _, err := SignAccess(1, "a@x.com", "admin", accessSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccess(raw, []byte("some-other-secret"))
	require.Error(t, err)
}

func TestParseRefresh_Expired_ReportsTokenExpired(t *testing.T) {
	t.Parallel()

	raw, _, err := SignRefresh(1, refreshSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseRefresh(raw, refreshSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRefresh_AccessSecretRejected(t *testing.T) {
	t.Parallel()

	raw, _, err := SignRefresh(1, refreshSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseRefresh(raw, accessSecret)
	require.Error(t, err)
}
