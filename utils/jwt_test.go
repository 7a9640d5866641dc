package utils

import (
	"testing"
	"time"

	"wayfarer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	token, err := issuer.GenerateToken(models.Caller{UserID: "u1", Email: "ann@example.com", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	caller, err := issuer.ExtractCaller(token)
	require.NoError(t, err)
	assert.Equal(t, models.Caller{UserID: "u1", Email: "ann@example.com", Role: models.RoleAdmin}, caller)
}

func TestExtractCallerDefaultsRole(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	token, err := issuer.GenerateToken(models.Caller{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	caller, err := issuer.ExtractCaller(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, caller.Role)
}

func TestExtractCallerRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret")

	expired, err := issuer.GenerateToken(models.Caller{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)
	_, err = issuer.ExtractCaller(expired)
	assert.Error(t, err)

	foreign, err := NewTokenIssuer("other").GenerateToken(models.Caller{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	_, err = issuer.ExtractCaller(foreign)
	assert.Error(t, err)

	noSubject, err := issuer.GenerateToken(models.Caller{}, time.Hour)
	require.NoError(t, err)
	_, err = issuer.ExtractCaller(noSubject)
	assert.Error(t, err)
}
