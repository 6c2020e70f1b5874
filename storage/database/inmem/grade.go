package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/chumcred/academy/core/grading"
)

type gradeRepository struct {
	db *gradeTable
}

func NewGradeRepository(db *DB) grading.Repository {
	return &gradeRepository{db: db.grade}
}

func (r *gradeRepository) UpsertGrade(ctx context.Context, grd grading.Grade) (grading.Grade, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	key := studentWeek{studentID: grd.StudentID, week: grd.Week}
	if existing, ok := r.db.t[key]; ok {
		existing.Score = grd.Score
		existing.Feedback = grd.Feedback
		existing.GradedAt = grd.GradedAt
		existing.GraderID = grd.GraderID
		return *existing, nil
	}
	if grd.ID == "" {
		grd.ID = uuid.NewString()
	}
	r.db.t[key] = &grd
	return grd, nil
}

func (r *gradeRepository) GetGrade(ctx context.Context, studentID string, week int) (grading.Grade, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if grd, ok := r.db.t[studentWeek{studentID: studentID, week: week}]; ok {
		return *grd, nil
	}
	return grading.Grade{}, grading.ErrNotFound
}

func (r *gradeRepository) QueryGradesByStudent(ctx context.Context, studentID string) ([]grading.Grade, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	grds := make([]grading.Grade, 0)
	for key, grd := range r.db.t {
		if key.studentID == studentID {
			grds = append(grds, *grd)
		}
	}
	sort.Slice(grds, func(i, j int) bool { return grds[i].Week < grds[j].Week })
	return grds, nil
}
