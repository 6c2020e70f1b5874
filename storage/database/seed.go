package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/user"
)

// Seed runs the idempotent first-start seeding: the default admin account
// (from configuration) and the built-in course catalog. Called explicitly
// from process startup with the services already bound to the store.
func Seed(ctx context.Context, usrSvc *user.Service, crsSvc *course.Service) error {
	if err := usrSvc.EnsureDefaultAdmin(ctx); err != nil {
		return errors.Wrap(err, "seeding default admin")
	}
	if err := crsSvc.SeedCatalog(ctx); err != nil {
		return errors.Wrap(err, "seeding course catalog")
	}
	return nil
}
