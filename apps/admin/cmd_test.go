package main

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/user"
	emailsvc "github.com/chumcred/academy/services/email"
	inmemdb "github.com/chumcred/academy/storage/database/inmem"
	testutil "github.com/chumcred/academy/tests"
)

func setup(t *testing.T) (*commandLine, user.Repository) {
	t.Helper()

	conf := core.NewConfig()
	conf.TestMode = true

	db, err := inmemdb.Open()
	require.NoError(t, err)

	usrRepo := inmemdb.NewUserRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	cli := &commandLine{
		conf:   conf,
		usrSvc: user.NewService(usrRepo, mailSvc, conf),
		crsSvc: course.NewService(inmemdb.NewCourseRepository(db)),
	}
	return cli, usrRepo
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	old := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = old })
}

func Test_commandLine_run_help(t *testing.T) {
	cli, _ := setup(t)
	mockPassword(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{"admin"}},
		{"unknown command", []string{"admin", "frobnicate"}},
		{"adduser without username", []string{"admin", "adduser"}},
		{"adduser without password", []string{"admin", "adduser", "-username", "jdoe"}},
		{"resetpassword without username", []string{"admin", "resetpassword"}},
		{"resetpassword without password", []string{"admin", "resetpassword", "-username", "jdoe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, errHelp, cli.run(tt.args))
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo := setup(t)
	ctx := context.Background()
	mockPassword(t, "s3cr3tpwd")

	err := cli.run([]string{"admin", "adduser", "-username", "JDoe", "-email", "jdoe@test.cd"})
	require.NoError(t, err)

	usr, err := usrRepo.GetUserByUsername(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe@test.cd", usr.Email)
	assert.True(t, usr.IsStudent())
	assert.NoError(t, usr.CheckPassword("s3cr3tpwd"))

	err = cli.run([]string{"admin", "adduser", "-username", "boss", "-admin"})
	require.NoError(t, err)

	usr, err = usrRepo.GetUserByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.True(t, usr.IsAdmin())
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup(t)
	mockPassword(t, "n3wpwd")

	testutil.CreateStudent(t, usrRepo, "J Doe", "jdoe", "jdoe@test.cd", "0ldpwd")

	t.Run("unknown user", func(t *testing.T) {
		err := cli.run([]string{"admin", "resetpassword", "-username", "ghost"})
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})

	t.Run("ok", func(t *testing.T) {
		err := cli.run([]string{"admin", "resetpassword", "-username", "jdoe"})
		require.NoError(t, err)

		usr, err := usrRepo.GetUserByUsername(context.Background(), "jdoe")
		require.NoError(t, err)
		assert.Error(t, usr.CheckPassword("0ldpwd"))
		assert.NoError(t, usr.CheckPassword("n3wpwd"))
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var migrated bool
	old := migrateFunc
	migrateFunc = func(db *sqlx.DB, conf *core.Config) error {
		migrated = true
		return nil
	}
	t.Cleanup(func() { migrateFunc = old })

	require.NoError(t, cli.run([]string{"admin", "migrate"}))
	assert.True(t, migrated)
}

func Test_commandLine_seed(t *testing.T) {
	cli, usrRepo := setup(t)
	ctx := context.Background()

	require.NoError(t, cli.run([]string{"admin", "seed"}))

	admin, err := usrRepo.GetUserByUsername(ctx, cli.conf.Admin.Username)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	mods, err := cli.crsSvc.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, mods, course.MaxWeek)

	// seeding twice must not duplicate anything
	require.NoError(t, cli.run([]string{"admin", "seed"}))
	mods, err = cli.crsSvc.ListModules(ctx)
	require.NoError(t, err)
	assert.Len(t, mods, course.MaxWeek)
}
