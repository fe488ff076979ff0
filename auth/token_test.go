//go:build unit
// +build unit

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-field-ops/models"
)

func testPerson() *models.Employee {
	email := "asha@example.com"
	city := uint(1)
	return &models.Employee{
		ID:     7,
		Name:   "Asha",
		Role:   models.RoleWorker,
		Email:  &email,
		CityID: &city,
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Minute, time.Hour)
	assert.Error(t, err)
}

// TestIssuePair_RoundTrip ensures both tokens validate under their own kind
// and carry the account's identity claims.
func TestIssuePair_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("test-secret", 50*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	access, refresh, err := svc.IssuePair(testPerson())
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.Validate(access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.PersonID)
	assert.Equal(t, models.RoleWorker, claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	refreshClaims, err := svc.Validate(refresh, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), refreshClaims.PersonID)

	// Each token carries its own jti.
	assert.NotEqual(t, claims.ID, refreshClaims.ID)
}

// TestValidate_KindMismatch: a refresh token must not pass as an access
// token, and vice versa.
func TestValidate_KindMismatch(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	access, refresh, err := svc.IssuePair(testPerson())
	require.NoError(t, err)

	_, err = svc.Validate(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Validate(access, KindRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsExpired(t *testing.T) {
	svc, err := NewTokenService("test-secret", -time.Minute, time.Hour)
	require.NoError(t, err)

	access, err := svc.IssueAccess(testPerson())
	require.NoError(t, err)

	_, err = svc.Validate(access, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsForeignSignature(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenService("another-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	access, err := other.IssueAccess(testPerson())
	require.NoError(t, err)

	_, err = svc.Validate(access, KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsGarbage(t *testing.T) {
	svc, err := NewTokenService("test-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = svc.Validate("not-a-token", KindAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
