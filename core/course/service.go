package course

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound         = errors.New("module not found")
	ErrMaterialNotFound = errors.New("material not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// QueryAllModules returns all modules ordered by week,
		// with materials and assignment populated.
		QueryAllModules(ctx context.Context) ([]Module, error)
		GetModuleByWeek(ctx context.Context, week int) (Module, error)
		// UpdateOrCreateModule upserts a module by week.
		UpdateOrCreateModule(ctx context.Context, mod Module) (Module, error)

		CreateMaterial(ctx context.Context, mat Material) (Material, error)
		GetMaterialByID(ctx context.Context, id string) (Material, error)
		// UpdateMaterial persists non-zero fields of mat.
		UpdateMaterial(ctx context.Context, mat Material) (Material, error)
		DeleteMaterial(ctx context.Context, id string) error
		MaterialExists(ctx context.Context, week int, ref string) (bool, error)

		// UpsertAssignment upserts an assignment by week.
		UpsertAssignment(ctx context.Context, a Assignment) (Assignment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) ListModules(ctx context.Context) ([]Module, error) {
	return svc.repo.QueryAllModules(ctx)
}

func (svc *Service) GetModule(ctx context.Context, week int) (Module, error) {
	if week < MinWeek || week > MaxWeek {
		return Module{}, ErrNotFound
	}
	return svc.repo.GetModuleByWeek(ctx, week)
}

func (svc *Service) AddMaterial(ctx context.Context, nm NewMaterial) (Material, error) {
	if _, err := svc.GetModule(ctx, nm.Week); err != nil {
		return Material{}, err
	}
	mat := Material{
		Week:      nm.Week,
		Title:     nm.Title,
		Kind:      nm.Kind,
		Ref:       nm.Ref,
		CreatedAt: nowFunc().UTC(),
	}
	return svc.repo.CreateMaterial(ctx, mat)
}

func (svc *Service) UpdateMaterial(ctx context.Context, id string, um UpdateMaterial) (Material, error) {
	if _, err := svc.repo.GetMaterialByID(ctx, id); err != nil {
		return Material{}, err
	}
	mat := Material{
		ID:    id,
		Title: um.Title,
		Kind:  um.Kind,
		Ref:   um.Ref,
	}
	return svc.repo.UpdateMaterial(ctx, mat)
}

func (svc *Service) RemoveMaterial(ctx context.Context, id string) error {
	return svc.repo.DeleteMaterial(ctx, id)
}

func (svc *Service) SetAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	if _, err := svc.GetModule(ctx, na.Week); err != nil {
		return Assignment{}, err
	}
	a := Assignment{
		Week:      na.Week,
		Title:     na.Title,
		Prompt:    na.Prompt,
		DueDate:   na.DueDate,
		CreatedAt: nowFunc().UTC(),
	}
	return svc.repo.UpsertAssignment(ctx, a)
}

// SeedCatalog loads the built-in six-week program into the store.
// Idempotent: modules and assignments are only written on a fresh store so
// later admin edits survive restarts; materials are created whenever the
// (week, ref) pair is not present yet.
func (svc *Service) SeedCatalog(ctx context.Context) error {
	existing, err := svc.repo.QueryAllModules(ctx)
	if err != nil {
		return errors.Wrap(err, "checking catalog")
	}
	fresh := len(existing) == 0

	now := nowFunc().UTC()
	for _, sm := range seedCatalog {
		if fresh {
			mod := Module{
				Week:        sm.week,
				Title:       sm.title,
				Description: sm.description,
				CreatedAt:   now,
			}
			if _, err := svc.repo.UpdateOrCreateModule(ctx, mod); err != nil {
				return errors.Wrapf(err, "seeding module %d", sm.week)
			}

			a := Assignment{
				Week:      sm.week,
				Title:     fmt.Sprintf("Week %d Assignment", sm.week),
				Prompt:    sm.prompt,
				DueDate:   now.AddDate(0, 0, 7*sm.week),
				CreatedAt: now,
			}
			if _, err := svc.repo.UpsertAssignment(ctx, a); err != nil {
				return errors.Wrapf(err, "seeding assignment %d", sm.week)
			}
		}

		for _, m := range sm.materials {
			exists, err := svc.repo.MaterialExists(ctx, sm.week, m.ref)
			if err != nil {
				return errors.Wrapf(err, "checking material %q", m.ref)
			}
			if exists {
				continue
			}
			mat := Material{
				Week:      sm.week,
				Title:     m.title,
				Kind:      m.kind,
				Ref:       m.ref,
				CreatedAt: now,
			}
			if _, err := svc.repo.CreateMaterial(ctx, mat); err != nil {
				return errors.Wrapf(err, "seeding material %q", m.ref)
			}
		}
	}
	return nil
}
