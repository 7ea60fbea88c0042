package service

import (
	"path/filepath"
	"testing"

	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/internal/ws"
	"gadget-prima-pos/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Role{}, &model.Privilege{}))

	hub := ws.NewHub(zap.NewNop())
	go hub.Run()

	tokens := jwt.NewManager(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "gadget-prima-pos",
		ExpirationHours: 1,
	})

	cashier := &model.Role{Code: model.RoleCashier, Name: "Kasir"}
	require.NoError(t, db.Create(cashier).Error)

	user := &model.User{
		Email:    "budi@gadgetprima.id",
		FullName: "Budi Santoso",
		RoleID:   &cashier.ID,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("rahasia1"))
	require.NoError(t, db.Create(user).Error)

	return NewAuthService(repository.NewUserRepo(db), tokens, hub), db
}

func TestLogin(t *testing.T) {
	svc, db := newAuthService(t)

	t.Run("valid credentials return a token", func(t *testing.T) {
		resp, err := svc.Login("budi@gadgetprima.id", "rahasia1")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "budi@gadgetprima.id", resp.User.Email)
		require.NotNil(t, resp.Role)
		assert.Equal(t, model.RoleCashier, resp.Role.Code)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login("budi@gadgetprima.id", "salah")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		_, err := svc.Login("nobody@gadgetprima.id", "rahasia1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		require.NoError(t, db.Model(&model.User{}).
			Where("email = ?", "budi@gadgetprima.id").
			Update("is_active", false).Error)
		_, err := svc.Login("budi@gadgetprima.id", "rahasia1")
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestLoginRotatesTokenVersion(t *testing.T) {
	// logging in on a second device invalidates the first session
	svc, _ := newAuthService(t)

	first, err := svc.Login("budi@gadgetprima.id", "rahasia1")
	require.NoError(t, err)
	_, err = svc.ValidateToken(first.Token)
	require.NoError(t, err)

	second, err := svc.Login("budi@gadgetprima.id", "rahasia1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(second.Token)
	assert.NoError(t, err)
	_, err = svc.ValidateToken(first.Token)
	assert.Error(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	assert.ErrorIs(t, svc.ResetPassword("budi@gadgetprima.id", "salah", "baru1234"), ErrWrongPassword)
	require.NoError(t, svc.ResetPassword("budi@gadgetprima.id", "rahasia1", "baru1234"))

	_, err := svc.Login("budi@gadgetprima.id", "rahasia1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("budi@gadgetprima.id", "baru1234")
	assert.NoError(t, err)
}
