package programs

import "partnerhub/pkg/domain"

// PartnerProgramMetrics rolls up the summaries of one partner's programs.
type PartnerProgramMetrics struct {
	TotalPrograms      int `json:"totalPrograms"`
	ActivePrograms     int `json:"activePrograms"`
	CoPartnerCount     int `json:"coPartnerCount"`
	CoordinatorCount   int `json:"coordinatorCount"`
	InstitutionCount   int `json:"institutionCount"`
	TeacherCount       int `json:"teacherCount"`
	StudentCount       int `json:"studentCount"`
	ProjectCount       int `json:"projectCount"`
	ActiveProjectCount int `json:"activeProjectCount"`
	TemplateCount      int `json:"templateCount"`
	PendingInvitations int `json:"pendingInvitations"`
	CountryCount       int `json:"countryCount"`
}

// AggregateProgramMetrics sums the per-program counts. CountryCount is the
// size of the union of all countries, so a country shared by two programs
// counts once.
func AggregateProgramMetrics(summaries []ProgramSummary) PartnerProgramMetrics {
	var out PartnerProgramMetrics
	countries := newCountrySet()
	for _, s := range summaries {
		out.TotalPrograms++
		if s.Program.Status == domain.ProgramStatusActive {
			out.ActivePrograms++
		}
		m := s.Metrics
		out.CoPartnerCount += m.CoPartnerCount
		out.CoordinatorCount += m.CoordinatorCount
		out.InstitutionCount += m.InstitutionCount
		out.TeacherCount += m.TeacherCount
		out.StudentCount += m.StudentCount
		out.ProjectCount += m.ProjectCount
		out.ActiveProjectCount += m.ActiveProjectCount
		out.TemplateCount += m.TemplateCount
		out.PendingInvitations += m.PendingInvitations
		countries.add(m.Countries...)
	}
	out.CountryCount = len(countries.list)
	return out
}
