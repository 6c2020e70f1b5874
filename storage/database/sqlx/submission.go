package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

type submissionRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	Week        int       `db:"week"`
	ArtifactRef string    `db:"artifact_ref"`
	Note        string    `db:"note"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func (r submissionRow) toSubmission() submission.Submission {
	return submission.Submission(r)
}

func (repo submissionRepository) UpsertSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	query := repo.db.Rebind(`
		INSERT INTO submissions (id, student_id, week, artifact_ref, note, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, week) DO UPDATE SET
			artifact_ref = excluded.artifact_ref,
			note = excluded.note,
			submitted_at = excluded.submitted_at`)
	_, err := repo.db.ExecContext(ctx, query,
		sub.ID, sub.StudentID, sub.Week, sub.ArtifactRef, sub.Note, sub.SubmittedAt)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "upserting submission")
	}
	return repo.GetSubmission(ctx, sub.StudentID, sub.Week)
}

func (repo submissionRepository) GetSubmission(ctx context.Context, studentID string, week int) (submission.Submission, error) {
	var row submissionRow
	query := repo.db.Rebind(`SELECT * FROM submissions WHERE student_id = ? AND week = ?`)
	if err := repo.db.GetContext(ctx, &row, query, studentID, week); err != nil {
		return submission.Submission{}, trapNoRowsErr(err, submission.ErrNotFound, "getting submission")
	}
	return row.toSubmission(), nil
}

func (repo submissionRepository) QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]submission.Submission, error) {
	var rows []submissionRow
	query := repo.db.Rebind(`SELECT * FROM submissions WHERE student_id = ? ORDER BY week`)
	if err := repo.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying submissions by student")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs, nil
}

func (repo submissionRepository) QueryUngradedSubmissions(ctx context.Context) ([]submission.Submission, error) {
	var rows []submissionRow
	query := `
		SELECT s.* FROM submissions s
		LEFT JOIN grades g ON g.student_id = s.student_id AND g.week = s.week
		WHERE g.id IS NULL
		ORDER BY s.submitted_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying ungraded submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs, nil
}
