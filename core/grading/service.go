package grading

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/submission"
	"github.com/chumcred/academy/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("grade not found")
	ErrPermissionDenied = errors.New("permission denied")

	nowFunc = time.Now // mockable
)

type (
	Repository interface {
		// UpsertGrade inserts or replaces the row keyed by
		// (StudentID, Week) in a single atomic write.
		UpsertGrade(ctx context.Context, grd Grade) (Grade, error)
		GetGrade(ctx context.Context, studentID string, week int) (Grade, error)
		QueryGradesByStudent(ctx context.Context, studentID string) ([]Grade, error)
	}

	Service struct {
		repo    Repository
		subSvc  *submission.Service
		usrSvc  *user.Service
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, subSvc *submission.Service, usrSvc *user.Service, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, subSvc: subSvc, usrSvc: usrSvc, mailSvc: mailSvc, conf: conf}
}

// Grade records (or overwrites) a score and feedback for a submission.
// Only admins may grade; the latest caller always wins the grader slot.
func (svc *Service) Grade(ctx context.Context, grader user.User, in GradeInput) (Grade, error) {
	if !grader.IsAdmin() {
		return Grade{}, ErrPermissionDenied
	}
	if _, err := svc.subSvc.Get(ctx, in.StudentID, in.Week); err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return Grade{}, core.NewValidationError(err,
				core.FieldError{Field: "week", Error: "no submission to grade for this module"})
		}
		return Grade{}, errors.Wrap(err, "finding submission")
	}

	grd := Grade{
		StudentID: in.StudentID,
		Week:      in.Week,
		Score:     in.Score,
		Feedback:  in.Feedback,
		GradedAt:  nowFunc().UTC(),
		GraderID:  grader.ID,
	}
	grd, err := svc.repo.UpsertGrade(ctx, grd)
	if err != nil {
		return Grade{}, errors.Wrap(err, "recording grade")
	}
	svc.sendGradedEmail(ctx, grd)
	return grd, nil
}

// GetFor returns one grade. Grades are visible only to the owning student
// and to admins; the rule lives here, not in the presentation layer.
func (svc *Service) GetFor(ctx context.Context, requester user.User, studentID string, week int) (Grade, error) {
	if !requester.IsAdmin() && requester.ID != studentID {
		return Grade{}, ErrPermissionDenied
	}
	return svc.repo.GetGrade(ctx, studentID, week)
}

// QueryFor returns all of a student's grades, subject to the same
// visibility rule as GetFor.
func (svc *Service) QueryFor(ctx context.Context, requester user.User, studentID string) ([]Grade, error) {
	if !requester.IsAdmin() && requester.ID != studentID {
		return nil, ErrPermissionDenied
	}
	return svc.repo.QueryGradesByStudent(ctx, studentID)
}

func (svc *Service) sendGradedEmail(ctx context.Context, grd Grade) {
	student, err := svc.usrSvc.GetByID(ctx, grd.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      fmt.Sprintf("Week %d graded", grd.Week),
		TemplateName: "graded",
		TemplateData: struct {
			Name     string
			Week     int
			Score    float64
			Feedback string
			AppName  string
		}{student.Name, grd.Week, grd.Score, grd.Feedback, svc.conf.AppName},
	})
}
