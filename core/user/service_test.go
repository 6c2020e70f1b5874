package user_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/user"
	emailsvc "github.com/chumcred/academy/services/email"
	inmemdb "github.com/chumcred/academy/storage/database/inmem"
	testutil "github.com/chumcred/academy/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository, *core.Config) {
	t.Helper()

	conf := core.NewConfig()
	conf.TestMode = true

	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewUserRepository(db)

	emailsvc.ClearSentMessages()
	svc := user.NewService(repo, emailsvc.NewConsoleServiceMock(conf), conf)
	return svc, repo, conf
}

func TestService_Authenticate(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	active := testutil.CreateStudent(t, repo, "Alice", "alice", "alice@test.cd", "s3cr3tpwd")
	inactive := testutil.CreateUser(t, repo, "Ghost", "ghost", "ghost@test.cd", "s3cr3tpwd", user.RoleStudent, false)

	t.Run("ok", func(t *testing.T) {
		usr, err := svc.Authenticate(ctx, "alice", "s3cr3tpwd")
		require.NoError(t, err)
		assert.Equal(t, active.ID, usr.ID)
		assert.False(t, usr.LastLogin.IsZero())
	})

	t.Run("username is case-insensitive", func(t *testing.T) {
		usr, err := svc.Authenticate(ctx, "  ALICE ", "s3cr3tpwd")
		require.NoError(t, err)
		assert.Equal(t, active.ID, usr.ID)
	})

	// unknown user, wrong password and deactivated account must be
	// indistinguishable to the caller
	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "s3cr3tpwd")
		assert.Equal(t, user.ErrAuthenticationFailed, errors.Cause(err))
	})
	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrongpwd")
		assert.Equal(t, user.ErrAuthenticationFailed, errors.Cause(err))
	})
	t.Run("deactivated account", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, inactive.Username, "s3cr3tpwd")
		assert.Equal(t, user.ErrAuthenticationFailed, errors.Cause(err))
	})
}

func TestService_Create(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{
		Name:            "Bob Mark",
		Username:        "bob",
		Email:           "bob@test.cd",
		Password:        "s3cr3tpwd",
		PasswordConfirm: "s3cr3tpwd",
		Role:            user.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("s3cr3tpwd"))

	// a welcome email went out
	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "bob@test.cd", msg.To[0].Address)
	assert.Contains(t, msg.TextContent, "bob")
}

func TestService_ChangePassword(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	usr := testutil.CreateStudent(t, repo, "Alice", "alice", "alice@test.cd", "oldpwd123")

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, usr.ID, user.ChangePassword{
			OldPassword: "wrong", NewPassword: "newpwd123", NewPasswordConfirm: "newpwd123",
		})
		assert.Equal(t, user.ErrAuthenticationFailed, errors.Cause(err))
	})

	t.Run("new password must differ", func(t *testing.T) {
		err := svc.ChangePassword(ctx, usr.ID, user.ChangePassword{
			OldPassword: "oldpwd123", NewPassword: "oldpwd123", NewPasswordConfirm: "oldpwd123",
		})
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "new_password", vErr.Fields[0].Field)
	})

	t.Run("ok", func(t *testing.T) {
		err := svc.ChangePassword(ctx, usr.ID, user.ChangePassword{
			OldPassword: "oldpwd123", NewPassword: "newpwd123", NewPasswordConfirm: "newpwd123",
		})
		require.NoError(t, err)

		refreshed, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.NoError(t, refreshed.CheckPassword("newpwd123"))
		assert.Error(t, refreshed.CheckPassword("oldpwd123"))
	})
}

func TestService_ResetPassword(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	usr := testutil.CreateStudent(t, repo, "Alice", "alice", "alice@test.cd", "oldpwd123")

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "nobody", "newpwd123")
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, usr.Username, "newpwd123"))

		refreshed, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.NoError(t, refreshed.CheckPassword("newpwd123"))
	})
}

func TestService_SetActive(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	usr := testutil.CreateStudent(t, repo, "Alice", "alice", "alice@test.cd", "s3cr3tpwd")

	deactivated, err := svc.SetActive(ctx, usr.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	reactivated, err := svc.SetActive(ctx, usr.ID, true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)

	_, err = svc.SetActive(ctx, "nope", false)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func TestService_EnsureDefaultAdmin(t *testing.T) {
	svc, repo, conf := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	admin, err := repo.GetUserByUsername(ctx, conf.Admin.Username)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsActive)
	assert.NoError(t, admin.CheckPassword(conf.Admin.Password))

	// idempotent: a second run must not create another account
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
	users, err := repo.QueryAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
