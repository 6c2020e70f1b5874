package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/chumcred/academy/core/submission"
)

type submissionRepository struct {
	db    *submissionTable
	grade *gradeTable
}

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db.submission, grade: db.grade}
}

func (r *submissionRepository) UpsertSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	key := studentWeek{studentID: sub.StudentID, week: sub.Week}
	if existing, ok := r.db.t[key]; ok {
		existing.ArtifactRef = sub.ArtifactRef
		existing.Note = sub.Note
		existing.SubmittedAt = sub.SubmittedAt
		return *existing, nil
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	r.db.t[key] = &sub
	return sub, nil
}

func (r *submissionRepository) GetSubmission(ctx context.Context, studentID string, week int) (submission.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if sub, ok := r.db.t[studentWeek{studentID: studentID, week: week}]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (r *submissionRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]submission.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	subs := make([]submission.Submission, 0)
	for key, sub := range r.db.t {
		if key.studentID == studentID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Week < subs[j].Week })
	return subs, nil
}

func (r *submissionRepository) QueryUngradedSubmissions(ctx context.Context) ([]submission.Submission, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	r.grade.mutex.RLock()
	defer r.grade.mutex.RUnlock()

	subs := make([]submission.Submission, 0)
	for key, sub := range r.db.t {
		if _, graded := r.grade.t[key]; !graded {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}
