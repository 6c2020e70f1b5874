package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chumcred/academy/core"
)

// Material kinds
const (
	KindFile = "file"
	KindLink = "link"
)

// The program runs over six fixed weekly modules.
const (
	MinWeek = 1
	MaxWeek = 6
)

type (
	Material struct {
		ID        string    `json:"id"`
		Week      int       `json:"week"`
		Title     string    `json:"title"`
		Kind      string    `json:"kind"` // file | link
		Ref       string    `json:"ref"`  // uploaded file path or external URL
		CreatedAt time.Time `json:"created_at"`
	}

	Assignment struct {
		ID        string    `json:"id"`
		Week      int       `json:"week"`
		Title     string    `json:"title"`
		Prompt    string    `json:"prompt"`
		DueDate   time.Time `json:"due_date"`
		CreatedAt time.Time `json:"created_at"`
	}

	Module struct {
		ID          string      `json:"id"`
		Week        int         `json:"week"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Materials   []Material  `json:"materials"`
		Assignment  *Assignment `json:"assignment,omitempty"`
		CreatedAt   time.Time   `json:"created_at"`
	}
)

// NewMaterial contains information needed to attach a material to a module.
type NewMaterial struct {
	Week  int    `json:"week" validate:"required,min=1,max=6"`
	Title string `json:"title" validate:"required"`
	Kind  string `json:"kind" validate:"required,materialkind"`
	Ref   string `json:"ref" validate:"required"`
}

func (nm *NewMaterial) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	nm.Kind = core.CleanString(nm.Kind, true /* lower */)
	nm.Ref = core.CleanString(nm.Ref)
	return validate.Struct(nm)
}

// UpdateMaterial edits an existing material. Zero-valued fields are left untouched.
type UpdateMaterial struct {
	Title string `json:"title"`
	Kind  string `json:"kind" validate:"omitempty,materialkind"`
	Ref   string `json:"ref"`
}

func (um *UpdateMaterial) Validate(validate *validator.Validate) error {
	um.Title = core.CleanString(um.Title)
	um.Kind = core.CleanString(um.Kind, true /* lower */)
	um.Ref = core.CleanString(um.Ref)
	return validate.Struct(um)
}

// NewAssignment sets or replaces a module's assignment.
type NewAssignment struct {
	Week    int       `json:"week" validate:"required,min=1,max=6"`
	Title   string    `json:"title" validate:"required"`
	Prompt  string    `json:"prompt" validate:"required"`
	DueDate time.Time `json:"due_date"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Prompt = core.CleanString(na.Prompt)
	return validate.Struct(na)
}
