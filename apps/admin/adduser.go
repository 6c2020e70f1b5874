package main

import (
	"context"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/user"
)

// addUser creates a user account from the command line.
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	role := user.RoleStudent
	if isAdmin {
		role = user.RoleAdmin
	}

	nu := user.NewUser{
		Name:            uname,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	}
	_, err := cli.usrSvc.Create(ctx, nu)
	return err
}
