package submission

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("submission not found")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// UpsertSubmission inserts or replaces the row keyed by
		// (StudentID, Week) in a single atomic write.
		UpsertSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmission(ctx context.Context, studentID string, week int) (Submission, error)
		QuerySubmissionsByStudent(ctx context.Context, studentID string) ([]Submission, error)
		// QueryUngradedSubmissions returns submissions with no matching grade,
		// most recent first.
		QueryUngradedSubmissions(ctx context.Context) ([]Submission, error)
	}

	Service struct {
		repo   Repository
		usrSvc *user.Service
	}
)

func NewService(repo Repository, usrSvc *user.Service) *Service {
	return &Service{repo: repo, usrSvc: usrSvc}
}

// Submit records a student's work for a module. A second call with the same
// (student, week) replaces artifact/note and refreshes the timestamp; the
// one-row-per-pair invariant is kept by the storage layer's atomic upsert.
// A resubmission never touches an existing grade.
func (svc *Service) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	usr, err := svc.usrSvc.GetByID(ctx, ns.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Submission{}, core.NewValidationError(err,
				core.FieldError{Field: "student_id", Error: "unknown student"})
		}
		return Submission{}, errors.Wrap(err, "finding student")
	}
	if !usr.IsStudent() {
		err = errors.New("only student accounts can submit work")
		return Submission{}, core.NewValidationError(err,
			core.FieldError{Field: "student_id", Error: err.Error()})
	}

	sub := Submission{
		StudentID:   ns.StudentID,
		Week:        ns.Week,
		ArtifactRef: ns.ArtifactRef,
		Note:        ns.Note,
		SubmittedAt: nowFunc().UTC(),
	}
	return svc.repo.UpsertSubmission(ctx, sub)
}

func (svc *Service) Get(ctx context.Context, studentID string, week int) (Submission, error) {
	return svc.repo.GetSubmission(ctx, studentID, week)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(ctx, studentID)
}

// QueryUngraded lists the grading queue for staff.
func (svc *Service) QueryUngraded(ctx context.Context) ([]Submission, error) {
	return svc.repo.QueryUngradedSubmissions(ctx)
}
