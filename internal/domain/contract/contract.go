package contract

import (
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/profile"
)

type Status string

const (
	StatusPending  Status = "Pendente"
	StatusActive   Status = "Ativo"
	StatusRejected Status = "Recusado"
)

func (s Status) IsFinal() bool {
	return s == StatusActive || s == StatusRejected
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	default:
		return false
	}
}

type Transition struct {
	From  Status
	To    Status
	Actor profile.Role
}

// Transitions lists every status change a contract may make. Only the
// professor named on the contract answers a proposal.
var Transitions = []Transition{
	{From: StatusPending, To: StatusActive, Actor: profile.RoleProfessor},
	{From: StatusPending, To: StatusRejected, Actor: profile.RoleProfessor},
}

func CanTransition(from, to Status, actor profile.Role) bool {
	for _, t := range Transitions {
		if t.From == from && t.To == to && t.Actor == actor {
			return true
		}
	}
	return false
}

func TitleFor(jobTitle string) string {
	return "Contrato para " + jobTitle
}

type Contract struct {
	ID               common.UUID `json:"id"`
	InstitutionID    common.UUID `json:"institution_id"`
	ProfessorID      common.UUID `json:"professor_id"`
	JobID            common.UUID `json:"job_id"`
	ApplicationID    common.UUID `json:"application_id"`
	Title            string      `json:"title"`
	Status           Status      `json:"status"`
	InstitutionName  string      `json:"institution_name,omitempty"`
	InstitutionPhone string      `json:"institution_phone,omitempty"`
	ProfessorName    string      `json:"professor_name,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (c Contract) IsParty(userID common.UUID) bool {
	return c.InstitutionID == userID || c.ProfessorID == userID
}
