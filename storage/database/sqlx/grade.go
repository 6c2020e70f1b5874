package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/grading"
)

type gradeRepository struct {
	db *sqlx.DB
}

var _ grading.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

type gradeRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Week      int       `db:"week"`
	Score     float64   `db:"score"`
	Feedback  string    `db:"feedback"`
	GradedAt  time.Time `db:"graded_at"`
	GraderID  string    `db:"grader_id"`
}

func (r gradeRow) toGrade() grading.Grade {
	return grading.Grade(r)
}

func (repo gradeRepository) UpsertGrade(ctx context.Context, grd grading.Grade) (grading.Grade, error) {
	if grd.ID == "" {
		grd.ID = uuid.NewString()
	}
	query := repo.db.Rebind(`
		INSERT INTO grades (id, student_id, week, score, feedback, graded_at, grader_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, week) DO UPDATE SET
			score = excluded.score,
			feedback = excluded.feedback,
			graded_at = excluded.graded_at,
			grader_id = excluded.grader_id`)
	_, err := repo.db.ExecContext(ctx, query,
		grd.ID, grd.StudentID, grd.Week, grd.Score, grd.Feedback, grd.GradedAt, grd.GraderID)
	if err != nil {
		return grading.Grade{}, errors.Wrap(err, "upserting grade")
	}
	return repo.GetGrade(ctx, grd.StudentID, grd.Week)
}

func (repo gradeRepository) GetGrade(ctx context.Context, studentID string, week int) (grading.Grade, error) {
	var row gradeRow
	query := repo.db.Rebind(`SELECT * FROM grades WHERE student_id = ? AND week = ?`)
	if err := repo.db.GetContext(ctx, &row, query, studentID, week); err != nil {
		return grading.Grade{}, trapNoRowsErr(err, grading.ErrNotFound, "getting grade")
	}
	return row.toGrade(), nil
}

func (repo gradeRepository) QueryGradesByStudent(ctx context.Context, studentID string) ([]grading.Grade, error) {
	var rows []gradeRow
	query := repo.db.Rebind(`SELECT * FROM grades WHERE student_id = ? ORDER BY week`)
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying grades by student")
	}
	grds := make([]grading.Grade, 0, len(rows))
	for _, r := range rows {
		grds = append(grds, r.toGrade())
	}
	return grds, nil
}
