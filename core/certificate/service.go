package certificate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/grading"
	"github.com/chumcred/academy/core/user"
)

var (
	nowFunc    = time.Now       // mockable
	serialFunc = uuid.NewString // mockable
)

type Service struct {
	grades grading.Repository
	usrSvc *user.Service
	conf   *core.Config
}

func NewService(grades grading.Repository, usrSvc *user.Service, conf *core.Config) *Service {
	return &Service{grades: grades, usrSvc: usrSvc, conf: conf}
}

// EvaluateEligibility computes a student's certificate standing: every
// weekly module must be graded and the average must meet the threshold.
func (svc *Service) EvaluateEligibility(ctx context.Context, studentID string) (Eligibility, error) {
	if _, err := svc.usrSvc.GetByID(ctx, studentID); err != nil {
		return Eligibility{}, errors.Wrap(err, "finding student")
	}

	grades, err := svc.grades.QueryGradesByStudent(ctx, studentID)
	if err != nil {
		return Eligibility{}, errors.Wrap(err, "querying grades")
	}

	elig := Eligibility{Threshold: PassingAverage}

	graded := make(map[int]bool, len(grades))
	var sum float64
	for _, grd := range grades {
		graded[grd.Week] = true
		sum += grd.Score
	}
	for week := course.MinWeek; week <= course.MaxWeek; week++ {
		if !graded[week] {
			elig.MissingWeeks = append(elig.MissingWeeks, week)
		}
	}
	if len(elig.MissingWeeks) > 0 {
		elig.Reason = ReasonMissingGrades
		return elig, nil
	}

	elig.Average = sum / float64(len(grades))
	if elig.Average < PassingAverage {
		elig.Reason = ReasonBelowThreshold
		return elig, nil
	}
	elig.Eligible = true
	return elig, nil
}

// Render produces the certificate PDF for an eligible student.
// Failure to meet the preconditions is reported, not recovered.
func (svc *Service) Render(ctx context.Context, studentID string) (Document, error) {
	usr, err := svc.usrSvc.GetByID(ctx, studentID)
	if err != nil {
		return Document{}, errors.Wrap(err, "finding student")
	}

	elig, err := svc.EvaluateEligibility(ctx, studentID)
	if err != nil {
		return Document{}, err
	}
	if !elig.Eligible {
		return Document{}, &IneligibleError{Eligibility: elig}
	}

	name := usr.Name
	if name == "" {
		name = usr.Username
	}
	doc := Document{
		SerialNumber: serialFunc(),
		StudentName:  name,
		Average:      elig.Average,
		IssuedAt:     nowFunc().UTC(),
	}
	doc.PDF, err = renderPDF(doc, svc.conf.AppName)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}
