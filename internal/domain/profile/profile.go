package profile

import (
	"strings"
	"time"

	"gohire/internal/common"
)

type Role string

const (
	RoleInstitution Role = "institution"
	RoleProfessor   Role = "professor"
)

func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case RoleInstitution, RoleProfessor:
		return role, true
	default:
		return "", false
	}
}

// Profile is the role-tagged record attached to one identity. Role is fixed
// at sign-up.
type Profile struct {
	ID                    common.UUID  `json:"id"`
	Role                  Role         `json:"role"`
	FullName              string       `json:"full_name"`
	Email                 string       `json:"email"`
	Phone                 string       `json:"phone,omitempty"`
	Bio                   string       `json:"bio,omitempty"`
	AvatarURL             string       `json:"avatar_url,omitempty"`
	AreaOfWork            string       `json:"area_of_work,omitempty"`
	Location              string       `json:"location,omitempty"`
	CNPJ                  string       `json:"cnpj,omitempty"`
	ResponsibleName       string       `json:"responsible_name,omitempty"`
	ResponsibleRole       string       `json:"responsible_role,omitempty"`
	PreferredContractType string       `json:"preferred_contract_type,omitempty"`
	InstitutionID         *common.UUID `json:"institution_id,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func (p Profile) IsInstitution() bool {
	return p.Role == RoleInstitution
}

func (p Profile) IsProfessor() bool {
	return p.Role == RoleProfessor
}
