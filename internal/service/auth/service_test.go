package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichub/clinic-services/internal/model"
	"github.com/clinichub/clinic-services/internal/repository/sqlstore"
	"github.com/clinichub/clinic-services/pkg/auth"
	apperr "github.com/clinichub/clinic-services/pkg/errors"
	"github.com/clinichub/clinic-services/pkg/security"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.MigrateUsers(context.Background(), db))
	tokens := auth.NewJWTService("test-secret", time.Hour)
	return NewService(sqlstore.NewUserRepository(db), security.NewBcryptHasher(4), tokens)
}

func registerReq() *model.RegisterRequest {
	return &model.RegisterRequest{
		Username:  "mdupont",
		Email:     "marie@example.com",
		Password:  "Secret123",
		FirstName: "Marie",
		LastName:  "Dupont",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, token, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "mdupont", claims.Username)

	logged, token, err := svc.Login(ctx, &model.LoginRequest{Username: "mdupont", Password: "Secret123"}, "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, logged.LastLogin.IsZero())

	history, err := svc.LoginHistory(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, "127.0.0.1", history[0].IPAddress)
}

func TestLoginByEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, &model.LoginRequest{Username: "marie@example.com", Password: "Secret123"}, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &model.LoginRequest{Username: "mdupont", Password: "Wrong123"}, "", "")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRegisterDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	_, _, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	dup := registerReq()
	dup.Email = "other@example.com"
	_, _, err = svc.Register(ctx, dup)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	dup = registerReq()
	dup.Username = "other"
	_, _, err = svc.Register(ctx, dup)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newTestService(t)
	req := registerReq()
	req.Password = "short"
	_, _, err := svc.Register(context.Background(), req)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDisabledAccountCannotLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	user, _, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	admin := true
	_, err = svc.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{}, admin)
	require.NoError(t, err)

	// Disable directly through the repository path.
	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	got.IsActive = false
	require.NoError(t, svc.repo.Update(ctx, got))

	_, _, err = svc.Login(ctx, &model.LoginRequest{Username: "mdupont", Password: "Secret123"}, "", "")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestUpdateUserRoleRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	user, _, err := svc.Register(ctx, registerReq())
	require.NoError(t, err)

	role := model.RoleAdmin
	updated, err := svc.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{Role: &role}, false)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, updated.Role, "non-admins cannot change roles")

	updated, err = svc.UpdateUser(ctx, user.ID, &model.UpdateUserRequest{Role: &role}, true)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
}
