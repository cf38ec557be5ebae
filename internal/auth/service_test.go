package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/krishimitra/farmer-portal-backend/config"
	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/testutil"
)

type fakeProvisioner struct {
	userIDs []uint
	err     error
}

func (f *fakeProvisioner) ProvisionProfile(_ context.Context, userID uint) error {
	if f.err != nil {
		return f.err
	}
	f.userIDs = append(f.userIDs, userID)
	return nil
}

func newTestService(t *testing.T, prov ProfileProvisioner) *service {
	t.Helper()
	db := testutil.NewDB(t, &User{}, &auditlog.AuditLog{})
	audit := auditlog.NewService(auditlog.NewRepository(db), zap.NewNop())
	cfg := &config.Config{JWTSecret: "test-secret", JWTTTLHours: 24}

	svc := NewService(NewRepository(db), prov, audit, cfg, zap.NewNop()).(*service)
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestRegister(t *testing.T) {
	prov := &fakeProvisioner{}
	svc := newTestService(t, prov)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "farmer1", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, "farmer1", resp.User.Username)
	assert.Equal(t, RoleFarmer, resp.User.Role)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []uint{resp.User.ID}, prov.userIDs)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "farmer1", Password: "other-pass"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("admin role rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "boss", Password: "password123", Role: "Admin"})
		assert.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "x", Password: "password123", Role: "wizard"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestRegister_ProvisionFailure(t *testing.T) {
	svc := newTestService(t, &fakeProvisioner{err: errors.New("db down")})

	_, err := svc.Register(context.Background(), RegisterInput{Username: "farmer2", Password: "password123"})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t, &fakeProvisioner{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "farmer1", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginInput{Username: "farmer1", Password: "password123"})
	require.NoError(t, err)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, RoleFarmer, claims.Role)

	_, err = svc.Login(ctx, LoginInput{Username: "farmer1", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "ghost", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Rejects(t *testing.T) {
	svc := newTestService(t, &fakeProvisioner{})

	sign := func(secret string, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign("other", jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired", sign("test-secret", jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(-time.Hour).Unix()})},
		{"missing subject", sign("test-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t, &fakeProvisioner{})
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Username: "farmer1", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.User, resp.User)

	_, err = svc.Refresh(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
