package app

import (
	"context"
	"math"
	"sort"

	"gohire/internal/common"
	"gohire/internal/domain/application"
	"gohire/internal/domain/contract"
	"gohire/internal/domain/job"
	"gohire/internal/domain/profile"
)

const topJobsInReport = 5

type ReportService struct {
	jobs         job.Repository
	applications application.Repository
	contracts    contract.Repository
	profiles     profile.Repository
}

func NewReportService(jobs job.Repository, applications application.Repository, contracts contract.Repository, profiles profile.Repository) *ReportService {
	return &ReportService{jobs: jobs, applications: applications, contracts: contracts, profiles: profiles}
}

type JobCount struct {
	JobID common.UUID `json:"job_id"`
	Title string      `json:"title"`
	Count int         `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type InstitutionReport struct {
	TotalJobs         int                     `json:"total_jobs"`
	TotalCandidates   int                     `json:"total_candidates"`
	TotalContracts    int                     `json:"total_contracts"`
	ActiveContracts   int                     `json:"active_contracts"`
	HiringRate        float64                 `json:"hiring_rate"`
	CandidatesPerJob  []JobCount              `json:"candidates_per_job"`
	ContractsByStatus map[contract.Status]int `json:"contracts_by_status"`
	CandidatesByMonth []MonthCount            `json:"candidates_by_month"`
}

func (s *ReportService) Institution(ctx context.Context, institutionID common.UUID) (*InstitutionReport, error) {
	if _, err := requireRole(ctx, s.profiles, institutionID, profile.RoleInstitution); err != nil {
		return nil, err
	}
	jobs, err := s.jobs.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.ListByInstitution(ctx, institutionID)
	if err != nil {
		return nil, err
	}

	report := &InstitutionReport{
		TotalJobs:       len(jobs),
		TotalCandidates: len(apps),
		TotalContracts:  len(contracts),
		ContractsByStatus: map[contract.Status]int{
			contract.StatusPending:  0,
			contract.StatusActive:   0,
			contract.StatusRejected: 0,
		},
		CandidatesPerJob:  []JobCount{},
		CandidatesByMonth: []MonthCount{},
	}
	for _, c := range contracts {
		report.ContractsByStatus[c.Status]++
	}
	report.ActiveContracts = report.ContractsByStatus[contract.StatusActive]
	if report.TotalCandidates > 0 {
		rate := float64(report.ActiveContracts) / float64(report.TotalCandidates) * 100
		report.HiringRate = math.Round(rate*10) / 10
	}

	perJob := make(map[common.UUID]int, len(jobs))
	months := map[string]int{}
	for _, app := range apps {
		perJob[app.JobID]++
		months[app.CreatedAt.UTC().Format("2006-01")]++
	}
	for _, j := range jobs {
		if count := perJob[j.ID]; count > 0 {
			report.CandidatesPerJob = append(report.CandidatesPerJob, JobCount{JobID: j.ID, Title: j.Title, Count: count})
		}
	}
	sort.SliceStable(report.CandidatesPerJob, func(a, b int) bool {
		return report.CandidatesPerJob[a].Count > report.CandidatesPerJob[b].Count
	})
	if len(report.CandidatesPerJob) > topJobsInReport {
		report.CandidatesPerJob = report.CandidatesPerJob[:topJobsInReport]
	}
	for month, count := range months {
		report.CandidatesByMonth = append(report.CandidatesByMonth, MonthCount{Month: month, Count: count})
	}
	sort.Slice(report.CandidatesByMonth, func(a, b int) bool {
		return report.CandidatesByMonth[a].Month < report.CandidatesByMonth[b].Month
	})
	return report, nil
}

type ProfessorReport struct {
	Applications      []application.Application `json:"applications"`
	ActiveContracts   int                       `json:"active_contracts"`
	PendingContracts  int                       `json:"pending_contracts"`
	RejectedContracts int                       `json:"rejected_contracts"`
}

func (s *ReportService) Professor(ctx context.Context, professorID common.UUID) (*ProfessorReport, error) {
	if _, err := requireRole(ctx, s.profiles, professorID, profile.RoleProfessor); err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}
	contracts, err := s.contracts.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, err
	}
	report := &ProfessorReport{Applications: apps}
	if report.Applications == nil {
		report.Applications = []application.Application{}
	}
	for _, c := range contracts {
		switch c.Status {
		case contract.StatusActive:
			report.ActiveContracts++
		case contract.StatusPending:
			report.PendingContracts++
		case contract.StatusRejected:
			report.RejectedContracts++
		}
	}
	return report, nil
}
