package grading

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chumcred/academy/core"
)

// Grade is a staff evaluation of one submission. At most one per
// (student, week); regrading overwrites score/feedback and records the
// latest grader. Two admins grading concurrently resolve last-write-wins:
// there is no optimistic-concurrency check at this scale.
type Grade struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Week      int       `json:"week"`
	Score     float64   `json:"score"`
	Feedback  string    `json:"feedback"`
	GradedAt  time.Time `json:"graded_at"` // UTC
	GraderID  string    `json:"grader_id"`
}

// GradeInput contains information needed to grade a submission.
type GradeInput struct {
	StudentID string  `json:"student_id" validate:"required"`
	Week      int     `json:"week" validate:"required,min=1,max=6"`
	Score     float64 `json:"score" validate:"min=0,max=100"`
	Feedback  string  `json:"feedback"`
}

func (gi *GradeInput) Validate(validate *validator.Validate) error {
	gi.Feedback = core.CleanString(gi.Feedback)
	return validate.Struct(gi)
}
