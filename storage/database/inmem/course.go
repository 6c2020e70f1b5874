package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/chumcred/academy/core/course"
)

type courseRepository struct {
	db *courseTable
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

// getModule assembles a module with its materials and assignment.
// Callers must hold at least a read lock.
func (r *courseRepository) getModule(week int) (course.Module, bool) {
	mod, ok := r.db.modules[week]
	if !ok {
		return course.Module{}, false
	}
	res := *mod
	res.Materials = nil
	for _, mat := range r.db.materials {
		if mat.Week == week {
			res.Materials = append(res.Materials, *mat)
		}
	}
	sort.Slice(res.Materials, func(i, j int) bool {
		return res.Materials[i].CreatedAt.Before(res.Materials[j].CreatedAt)
	})
	if asg, ok := r.db.assignments[week]; ok {
		a := *asg
		res.Assignment = &a
	}
	return res, true
}

func (r *courseRepository) QueryAllModules(ctx context.Context) ([]course.Module, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	weeks := make([]int, 0, len(r.db.modules))
	for week := range r.db.modules {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	mods := make([]course.Module, 0, len(weeks))
	for _, week := range weeks {
		mod, _ := r.getModule(week)
		mods = append(mods, mod)
	}
	return mods, nil
}

func (r *courseRepository) GetModuleByWeek(ctx context.Context, week int) (course.Module, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if mod, ok := r.getModule(week); ok {
		return mod, nil
	}
	return course.Module{}, course.ErrNotFound
}

func (r *courseRepository) UpdateOrCreateModule(ctx context.Context, mod course.Module) (course.Module, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if existing, ok := r.db.modules[mod.Week]; ok {
		existing.Title = mod.Title
		existing.Description = mod.Description
	} else {
		if mod.ID == "" {
			mod.ID = uuid.NewString()
		}
		stored := mod
		stored.Materials = nil
		stored.Assignment = nil
		r.db.modules[mod.Week] = &stored
	}
	res, _ := r.getModule(mod.Week)
	return res, nil
}

func (r *courseRepository) CreateMaterial(ctx context.Context, mat course.Material) (course.Material, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	mat.ID = uuid.NewString()
	r.db.materials[mat.ID] = &mat
	return mat, nil
}

func (r *courseRepository) GetMaterialByID(ctx context.Context, id string) (course.Material, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if mat, ok := r.db.materials[id]; ok {
		return *mat, nil
	}
	return course.Material{}, course.ErrMaterialNotFound
}

func (r *courseRepository) UpdateMaterial(ctx context.Context, mat course.Material) (course.Material, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	existing, ok := r.db.materials[mat.ID]
	if !ok {
		return course.Material{}, course.ErrMaterialNotFound
	}
	if mat.Title != "" {
		existing.Title = mat.Title
	}
	if mat.Kind != "" {
		existing.Kind = mat.Kind
	}
	if mat.Ref != "" {
		existing.Ref = mat.Ref
	}
	return *existing, nil
}

func (r *courseRepository) DeleteMaterial(ctx context.Context, id string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.materials[id]; !ok {
		return course.ErrMaterialNotFound
	}
	delete(r.db.materials, id)
	return nil
}

func (r *courseRepository) MaterialExists(ctx context.Context, week int, ref string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, mat := range r.db.materials {
		if mat.Week == week && mat.Ref == ref {
			return true, nil
		}
	}
	return false, nil
}

func (r *courseRepository) UpsertAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if existing, ok := r.db.assignments[asg.Week]; ok {
		existing.Title = asg.Title
		existing.Prompt = asg.Prompt
		existing.DueDate = asg.DueDate
		return *existing, nil
	}
	if asg.ID == "" {
		asg.ID = uuid.NewString()
	}
	r.db.assignments[asg.Week] = &asg
	return asg, nil
}
