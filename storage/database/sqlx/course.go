package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/chumcred/academy/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type moduleRow struct {
	ID          string    `db:"id"`
	Week        int       `db:"week"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r moduleRow) toModule() course.Module {
	return course.Module{
		ID:          r.ID,
		Week:        r.Week,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

type materialRow struct {
	ID        string    `db:"id"`
	Week      int       `db:"week"`
	Title     string    `db:"title"`
	Kind      string    `db:"kind"`
	Ref       string    `db:"ref"`
	CreatedAt time.Time `db:"created_at"`
}

func (r materialRow) toMaterial() course.Material {
	return course.Material(r)
}

type assignmentRow struct {
	ID        string    `db:"id"`
	Week      int       `db:"week"`
	Title     string    `db:"title"`
	Prompt    string    `db:"prompt"`
	DueDate   null.Time `db:"due_date"`
	CreatedAt time.Time `db:"created_at"`
}

func (r assignmentRow) toAssignment() course.Assignment {
	return course.Assignment{
		ID:        r.ID,
		Week:      r.Week,
		Title:     r.Title,
		Prompt:    r.Prompt,
		DueDate:   r.DueDate.Time,
		CreatedAt: r.CreatedAt,
	}
}

func (repo courseRepository) QueryAllModules(ctx context.Context) ([]course.Module, error) {
	var modRows []moduleRow
	if err := repo.db.SelectContext(ctx, &modRows, `SELECT * FROM modules ORDER BY week`); err != nil {
		return nil, errors.Wrap(err, "querying modules")
	}

	var matRows []materialRow
	if err := repo.db.SelectContext(ctx, &matRows, `SELECT * FROM materials ORDER BY week, created_at`); err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}
	matsByWeek := make(map[int][]course.Material, len(modRows))
	for _, r := range matRows {
		matsByWeek[r.Week] = append(matsByWeek[r.Week], r.toMaterial())
	}

	var asgRows []assignmentRow
	if err := repo.db.SelectContext(ctx, &asgRows, `SELECT * FROM assignments`); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	asgByWeek := make(map[int]course.Assignment, len(asgRows))
	for _, r := range asgRows {
		asgByWeek[r.Week] = r.toAssignment()
	}

	mods := make([]course.Module, 0, len(modRows))
	for _, r := range modRows {
		mod := r.toModule()
		mod.Materials = matsByWeek[r.Week]
		if asg, ok := asgByWeek[r.Week]; ok {
			asg := asg
			mod.Assignment = &asg
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

func (repo courseRepository) GetModuleByWeek(ctx context.Context, week int) (course.Module, error) {
	var row moduleRow
	query := repo.db.Rebind(`SELECT * FROM modules WHERE week = ?`)
	if err := repo.db.GetContext(ctx, &row, query, week); err != nil {
		return course.Module{}, trapNoRowsErr(err, course.ErrNotFound, "getting module by week")
	}
	mod := row.toModule()

	var matRows []materialRow
	query = repo.db.Rebind(`SELECT * FROM materials WHERE week = ? ORDER BY created_at`)
	if err := repo.db.SelectContext(ctx, &matRows, query, week); err != nil {
		return course.Module{}, errors.Wrap(err, "querying module materials")
	}
	for _, r := range matRows {
		mod.Materials = append(mod.Materials, r.toMaterial())
	}

	var asgRow assignmentRow
	query = repo.db.Rebind(`SELECT * FROM assignments WHERE week = ?`)
	err := repo.db.GetContext(ctx, &asgRow, query, week)
	switch err {
	case nil:
		asg := asgRow.toAssignment()
		mod.Assignment = &asg
	case sql.ErrNoRows: // module without an assignment
	default:
		return course.Module{}, errors.Wrap(err, "querying module assignment")
	}
	return mod, nil
}

func (repo courseRepository) UpdateOrCreateModule(ctx context.Context, mod course.Module) (course.Module, error) {
	if mod.ID == "" {
		mod.ID = uuid.NewString()
	}
	query := repo.db.Rebind(`
		INSERT INTO modules (id, week, title, description, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (week) DO UPDATE SET
			title = excluded.title,
			description = excluded.description`)
	_, err := repo.db.ExecContext(ctx, query, mod.ID, mod.Week, mod.Title, mod.Description, mod.CreatedAt)
	if err != nil {
		return course.Module{}, errors.Wrap(err, "upserting module")
	}
	return repo.GetModuleByWeek(ctx, mod.Week)
}

func (repo courseRepository) CreateMaterial(ctx context.Context, mat course.Material) (course.Material, error) {
	mat.ID = uuid.NewString()
	query := repo.db.Rebind(`
		INSERT INTO materials (id, week, title, kind, ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := repo.db.ExecContext(ctx, query, mat.ID, mat.Week, mat.Title, mat.Kind, mat.Ref, mat.CreatedAt)
	if err != nil {
		return course.Material{}, errors.Wrap(err, "inserting material")
	}
	return mat, nil
}

func (repo courseRepository) GetMaterialByID(ctx context.Context, id string) (course.Material, error) {
	var row materialRow
	query := repo.db.Rebind(`SELECT * FROM materials WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		return course.Material{}, trapNoRowsErr(err, course.ErrMaterialNotFound, "getting material by ID")
	}
	return row.toMaterial(), nil
}

func (repo courseRepository) UpdateMaterial(ctx context.Context, mat course.Material) (course.Material, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if mat.Title != "" {
		sets = append(sets, "title = ?")
		args = append(args, mat.Title)
	}
	if mat.Kind != "" {
		sets = append(sets, "kind = ?")
		args = append(args, mat.Kind)
	}
	if mat.Ref != "" {
		sets = append(sets, "ref = ?")
		args = append(args, mat.Ref)
	}
	if len(sets) == 0 {
		return repo.GetMaterialByID(ctx, mat.ID)
	}
	args = append(args, mat.ID)

	query := repo.db.Rebind(`UPDATE materials SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return course.Material{}, errors.Wrap(err, "updating material")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Material{}, course.ErrMaterialNotFound
	}
	return repo.GetMaterialByID(ctx, mat.ID)
}

func (repo courseRepository) DeleteMaterial(ctx context.Context, id string) error {
	query := repo.db.Rebind(`DELETE FROM materials WHERE id = ?`)
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "deleting material")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.ErrMaterialNotFound
	}
	return nil
}

func (repo courseRepository) MaterialExists(ctx context.Context, week int, ref string) (bool, error) {
	var count int
	query := repo.db.Rebind(`SELECT COUNT(*) FROM materials WHERE week = ? AND ref = ?`)
	if err := repo.db.GetContext(ctx, &count, query, week, ref); err != nil {
		return false, errors.Wrap(err, "checking material existence")
	}
	return count > 0, nil
}

func (repo courseRepository) UpsertAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	if asg.ID == "" {
		asg.ID = uuid.NewString()
	}
	query := repo.db.Rebind(`
		INSERT INTO assignments (id, week, title, prompt, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (week) DO UPDATE SET
			title = excluded.title,
			prompt = excluded.prompt,
			due_date = excluded.due_date`)
	_, err := repo.db.ExecContext(ctx, query,
		asg.ID, asg.Week, asg.Title, asg.Prompt, null.TimeFromPtr(timePtr(asg.DueDate)), asg.CreatedAt)
	if err != nil {
		return course.Assignment{}, errors.Wrap(err, "upserting assignment")
	}

	var row assignmentRow
	query = repo.db.Rebind(`SELECT * FROM assignments WHERE week = ?`)
	if err := repo.db.GetContext(ctx, &row, query, asg.Week); err != nil {
		return course.Assignment{}, errors.Wrap(err, "reloading assignment")
	}
	return row.toAssignment(), nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
