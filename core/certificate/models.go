package certificate

import (
	"fmt"
	"time"
)

// A certificate is issued when a student holds a grade for every weekly
// module and the average score meets PassingAverage.
const PassingAverage = 60.0

// Ineligibility reasons
const (
	ReasonMissingGrades  = "missing_grades"
	ReasonBelowThreshold = "average_below_threshold"
)

type (
	Eligibility struct {
		Eligible     bool    `json:"eligible"`
		Average      float64 `json:"average"`
		Threshold    float64 `json:"threshold"`
		Reason       string  `json:"reason,omitempty"`
		MissingWeeks []int   `json:"missing_weeks,omitempty"`
	}

	// Document is a rendered certificate. Rendering is deterministic for a
	// given (student, average, serial, issue time) tuple.
	Document struct {
		SerialNumber string    `json:"serial_number"`
		StudentName  string    `json:"student_name"`
		Average      float64   `json:"average"`
		IssuedAt     time.Time `json:"issued_at"` // UTC
		PDF          []byte    `json:"-"`
	}
)

// IneligibleError reports failed certificate preconditions to the caller;
// it is recoverable and carries the full Eligibility for display.
type IneligibleError struct {
	Eligibility Eligibility
}

func (e *IneligibleError) Error() string {
	switch e.Eligibility.Reason {
	case ReasonMissingGrades:
		return fmt.Sprintf("certificate unavailable: modules %v are not graded yet", e.Eligibility.MissingWeeks)
	case ReasonBelowThreshold:
		return fmt.Sprintf("certificate unavailable: average %.2f is below the required %.0f", e.Eligibility.Average, e.Eligibility.Threshold)
	}
	return "certificate unavailable"
}
