package service_test

import (
	"context"
	"testing"

	"github.com/wasssssim/verger-du-coin/internal/config"
	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, JWTRefreshHours: 24}
}

func TestAuth_LoginRefreshCycle(t *testing.T) {
	e := newEnv(t)
	cfg := testConfig()
	svc := service.NewAuthService(e.users, e.customers, cfg)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Username: "marie", Password: "pommes2026", Role: model.RoleCashier})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "marie", Password: "poires"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "inconnu", Password: "pommes2026"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	tok, err := svc.Login(ctx, dto.LoginRequest{Username: "marie", Password: "pommes2026"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, 3600, tok.ExpiresIn)
	assert.Equal(t, model.RoleCashier, tok.User.Role)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tok.Access, claims, func(*jwt.Token) (interface{}, error) { return []byte(cfg.JWTSecret), nil })
	require.NoError(t, err)
	assert.Equal(t, service.TokenTypeAccess, claims["typ"])
	assert.Equal(t, model.RoleCashier, claims["role"])

	refreshed, err := svc.Refresh(ctx, tok.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)

	_, err = svc.Refresh(ctx, tok.Access)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials, "access tokens cannot be used to refresh")
	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_CreateUserConflictsAndLinks(t *testing.T) {
	e := newEnv(t)
	svc := service.NewAuthService(e.users, e.customers, testConfig())
	ctx := context.Background()
	c := e.customerRow(t, "web@example.fr")
	cid := c.ID.String()

	u, err := svc.CreateUser(ctx, dto.CreateUserRequest{Username: "webclient", Password: "motdepasse", Role: model.RoleCustomer, CustomerID: &cid})
	require.NoError(t, err)
	require.NotNil(t, u.CustomerID)
	assert.Equal(t, cid, *u.CustomerID)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Username: "webclient", Password: "motdepasse", Role: model.RoleCustomer})
	assert.ErrorIs(t, err, service.ErrConflict)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
