package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/chumcred/academy/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrUsernameExists       = errors.New("a user with this username already exists")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrAuthenticationFailed = errors.New("invalid credentials")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		// UpdateUser persists non-zero fields of usr; isActive is applied when non-nil.
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) checkUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, exclUsers...); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// Authenticate checks a username/password pair and returns the matching User.
// Unknown usernames, password mismatches and deactivated accounts all fail
// with the same ErrAuthenticationFailed so usernames cannot be enumerated.
func (svc *Service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, errors.Wrap(err, "finding user by username")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	if !usr.IsActive {
		return User{}, ErrAuthenticationFailed
	}
	return svc.SetLastLogin(ctx, usr)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = nowFunc().UTC()
	usr, err := svc.repo.UpdateUser(ctx, User{ID: usr.ID, LastLogin: usr.LastLogin}, nil)
	return usr, errors.Wrap(err, "setting last login")
}

// ChangePassword verifies the current password and stores a new hash.
// The new password must differ from the current one.
func (svc *Service) ChangePassword(ctx context.Context, id string, cp ChangePassword) error {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	if err = usr.CheckPassword(cp.OldPassword); err != nil {
		return ErrAuthenticationFailed
	}
	if cp.NewPassword == cp.OldPassword {
		err = errors.New("the new password must differ from the current one")
		return core.NewValidationError(err, core.FieldError{Field: "new_password", Error: err.Error()})
	}
	if err = usr.SetPassword(cp.NewPassword); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(ctx, User{ID: usr.ID, PasswordHash: usr.PasswordHash}, nil)
	return errors.Wrap(err, "updating password")
}

// ResetPassword force-sets a new password without checking the old one.
// Reserved for operator tooling; the API only exposes ChangePassword.
func (svc *Service) ResetPassword(ctx context.Context, uname, newPwd string) error {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return errors.Wrap(err, "finding user by username")
	}
	if err = usr.SetPassword(newPwd); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(ctx, User{ID: usr.ID, PasswordHash: usr.PasswordHash, UpdatedAt: nowFunc().UTC()}, nil)
	return errors.Wrap(err, "updating password")
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := nowFunc().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Email:     uu.Email,
		Role:      uu.Role,
		UpdatedAt: nowFunc().UTC(),
	}
	if uu.Email != "" {
		orig, err := svc.repo.GetUserByID(ctx, id)
		if err != nil {
			return User{}, errors.Wrap(err, "finding user by ID")
		}
		if err = svc.checkUniqueness(orig.Username, uu.Email, orig); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *Service) SetActive(ctx context.Context, id string, active bool) (User, error) {
	return svc.repo.UpdateUser(ctx, User{ID: id, UpdatedAt: nowFunc().UTC()}, &active)
}

// EnsureDefaultAdmin guarantees at least one admin account exists.
// It is an idempotent seeding step meant to run once at process start;
// the configured account is only created when its username is free.
func (svc *Service) EnsureDefaultAdmin(ctx context.Context) error {
	_, err := svc.repo.GetUserByUsername(ctx, core.CleanString(svc.conf.Admin.Username, true /* lower */))
	if err == nil {
		return nil
	}
	if errors.Cause(err) != ErrNotFound {
		return errors.Wrap(err, "checking default admin")
	}

	now := nowFunc().UTC()
	usr := User{
		Name:      "System Administrator",
		Username:  core.CleanString(svc.conf.Admin.Username, true /* lower */),
		Role:      RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = usr.SetPassword(svc.conf.Admin.Password); err != nil {
		return err
	}
	_, err = svc.repo.CreateUser(ctx, usr)
	return errors.Wrap(err, "creating default admin")
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Welcome to %s", svc.conf.AppName),
		TemplateName: "welcome",
		TemplateData: struct {
			Name     string
			Username string
			AppName  string
		}{usr.Name, usr.Username, svc.conf.AppName},
	})
}
