package submission

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chumcred/academy/core"
)

// Submission is a student's work for one weekly module.
// There is exactly one per (student, week); resubmitting replaces the
// artifact and note but keeps the row's identity.
type Submission struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Week        int       `json:"week"`
	ArtifactRef string    `json:"artifact_ref"`
	Note        string    `json:"note"`
	SubmittedAt time.Time `json:"submitted_at"` // UTC
}

// NewSubmission contains information needed to submit (or resubmit) work.
// At least one of ArtifactRef and Note must be provided.
type NewSubmission struct {
	StudentID   string `json:"student_id" validate:"required"`
	Week        int    `json:"week" validate:"required,min=1,max=6"`
	ArtifactRef string `json:"artifact_ref" validate:"required_without=Note"`
	Note        string `json:"note"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.ArtifactRef = core.CleanString(ns.ArtifactRef)
	ns.Note = core.CleanString(ns.Note)
	return validate.Struct(ns)
}
