package jwt

import (
	"testing"

	"gadget-prima-pos/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secret string) *Manager {
	return NewManager(config.JWTConfig{
		Secret:          secret,
		Issuer:          "gadget-prima-pos",
		ExpirationHours: 1,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	manager := newTestManager("test-secret")
	userID := uuid.New()

	token, err := manager.Generate(userID, "kasir@gadgetprima.id", "Budi", "CASHIER",
		[]string{"checkout:operate", "transaction:view"}, "v1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "kasir@gadgetprima.id", claims.Email)
	assert.Equal(t, "Budi", claims.Name)
	assert.Equal(t, "CASHIER", claims.RoleCode)
	assert.Equal(t, []string{"checkout:operate", "transaction:view"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, "gadget-prima-pos", claims.Issuer)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager("secret-a").Generate(uuid.New(), "a@b.id", "A", "ADMIN", nil, "v1")
	require.NoError(t, err)

	_, err = newTestManager("secret-b").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newTestManager("test-secret").Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	manager := NewManager(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "gadget-prima-pos",
		ExpirationHours: -1,
	})

	token, err := manager.Generate(uuid.New(), "a@b.id", "A", "ADMIN", nil, "v1")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
