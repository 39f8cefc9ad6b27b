package application

import (
	"context"
	"time"

	"gohire/internal/common"
)

type Status string

const (
	StatusSent     Status = "Enviada"
	StatusAccepted Status = "Aceita"
	StatusRejected Status = "Recusada"
)

type Application struct {
	ID          common.UUID `json:"id"`
	JobID       common.UUID `json:"job_id"`
	ProfessorID common.UUID `json:"professor_id"`
	Status      Status      `json:"status"`
	JobTitle    string      `json:"job_title,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Candidate is an application seen from the institution side, joined with
// the job title and the professor's contact fields.
type Candidate struct {
	Application
	ProfessorName      string `json:"professor_name"`
	ProfessorEmail     string `json:"professor_email"`
	ProfessorPhone     string `json:"professor_phone,omitempty"`
	ProfessorAvatarURL string `json:"professor_avatar_url,omitempty"`
	ProfessorArea      string `json:"professor_area_of_work,omitempty"`
	ContactURL         string `json:"contact_url,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByJobAndProfessor(ctx context.Context, jobID, professorID common.UUID) (*Application, error)
	ListByProfessor(ctx context.Context, professorID common.UUID) ([]Application, error)
	// ListCandidates returns applications to jobs of the institution that do
	// not have a contract yet, newest first.
	ListCandidates(ctx context.Context, institutionID common.UUID) ([]Candidate, error)
	ListByInstitution(ctx context.Context, institutionID common.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) error
}
