package job

import (
	"time"

	"gohire/internal/common"
)

type Job struct {
	ID                common.UUID    `json:"id"`
	InstitutionID     common.UUID    `json:"institution_id"`
	InstitutionName   string         `json:"institution_name,omitempty"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	DescriptionHTML   string         `json:"description_html,omitempty"`
	Requirements      []string       `json:"requirements"`
	Location          string         `json:"location"`
	City              string         `json:"city,omitempty"`
	Salary            *float64       `json:"salary,omitempty"`
	EducationLevel    string         `json:"education_level,omitempty"`
	ContractType      string         `json:"contract_type,omitempty"`
	Details           map[string]any `json:"details"`
	ApplicationsCount int            `json:"applications_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Filter narrows the public job search. Title and Location are substring
// matches that ignore case and accents.
type Filter struct {
	Title    string
	Location string
	Limit    int
	Offset   int
}
