package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/chumcred/academy/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, name, uname, email, pwd string) user.User {
	t.Helper()
	return CreateUser(t, repo, name, uname, email, pwd, user.RoleStudent, true)
}

func CreateAdmin(t *testing.T, repo user.Repository, name, uname, email, pwd string) user.User {
	t.Helper()
	return CreateUser(t, repo, name, uname, email, pwd, user.RoleAdmin, true)
}
