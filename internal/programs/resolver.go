// Package programs joins the flat record collections into partner- and
// program-scoped views: summaries, the discovery catalog, partner-level
// metrics, and cascade deletion. The query functions are pure over a
// loaded domain.Database; Service binds them to a record store.
package programs

import (
	"sort"

	"partnerhub/pkg/domain"
)

// ProgramMetrics are derived counts for one program. They are recomputed
// from the collections on every read.
type ProgramMetrics struct {
	StudentCount           int      `json:"studentCount"`
	InstitutionCount       int      `json:"institutionCount"`
	ActiveInstitutionCount int      `json:"activeInstitutionCount"`
	TeacherCount           int      `json:"teacherCount"`
	CoordinatorCount       int      `json:"coordinatorCount"`
	CoPartnerCount         int      `json:"coPartnerCount"`
	ProjectCount           int      `json:"projectCount"`
	ActiveProjectCount     int      `json:"activeProjectCount"`
	TemplateCount          int      `json:"templateCount"`
	PendingInvitations     int      `json:"pendingInvitations"`
	Countries              []string `json:"countries"`
}

// ProgramSummary is a program together with every record tied to it.
type ProgramSummary struct {
	Program      domain.Program                  `json:"program"`
	Partners     []domain.ProgramPartner         `json:"partners"`
	Coordinators []domain.CountryCoordinator     `json:"coordinators"`
	Institutions []domain.EducationalInstitution `json:"institutions"`
	Teachers     []domain.InstitutionTeacher     `json:"teachers"`
	Projects     []domain.ProgramProject         `json:"projects"`
	Templates    []domain.ProgramProjectTemplate `json:"templates"`
	Invitations  []domain.ProgramInvitation      `json:"invitations"`
	Activities   []domain.ProgramActivity        `json:"activities"`
	Metrics      ProgramMetrics                  `json:"metrics"`
}

// PartnerOptions controls which programs count as a partner's.
type PartnerOptions struct {
	// IncludeRelated adds programs linked through a ProgramPartner
	// relationship in any status.
	IncludeRelated bool
}

// ProgramsForPartner returns the partner's programs, newest first and
// without duplicates.
func ProgramsForPartner(db *domain.Database, partnerID string, opts PartnerOptions) []domain.Program {
	related := map[string]bool{}
	if opts.IncludeRelated {
		for _, rel := range db.ProgramPartners {
			if rel.PartnerID == partnerID {
				related[rel.ProgramID] = true
			}
		}
	}
	seen := map[string]bool{}
	var out []domain.Program
	for _, p := range db.Programs {
		if seen[p.ID] {
			continue
		}
		if p.PartnerID == partnerID || related[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	newestFirst(out)
	return out
}

func newestFirst(programs []domain.Program) {
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].CreatedAt.After(programs[j].CreatedAt)
	})
}

// BuildProgramSummary gathers the records referencing program and derives
// its metrics. Dangling references simply produce empty sets.
func BuildProgramSummary(db *domain.Database, program domain.Program) ProgramSummary {
	id := program.ID
	s := ProgramSummary{
		Program:      program,
		Partners:     domain.ProgramPartners.Where(db, func(r domain.ProgramPartner) bool { return r.ProgramID == id }),
		Coordinators: domain.Coordinators.Where(db, func(r domain.CountryCoordinator) bool { return r.ProgramID == id }),
		Institutions: domain.Institutions.Where(db, func(r domain.EducationalInstitution) bool { return r.ProgramID == id }),
		Teachers:     domain.InstitutionTeachers.Where(db, func(r domain.InstitutionTeacher) bool { return r.ProgramID == id }),
		Projects:     domain.ProgramProjects.Where(db, func(r domain.ProgramProject) bool { return r.ProgramID == id }),
		Templates:    domain.ProgramTemplates.Where(db, func(r domain.ProgramProjectTemplate) bool { return r.ProgramID == id }),
		Invitations:  domain.Invitations.Where(db, func(r domain.ProgramInvitation) bool { return r.ProgramID == id }),
		Activities:   domain.Activities.Where(db, func(r domain.ProgramActivity) bool { return r.ProgramID == id }),
	}
	s.Metrics = computeMetrics(s)
	return s
}

func computeMetrics(s ProgramSummary) ProgramMetrics {
	m := ProgramMetrics{
		InstitutionCount: len(s.Institutions),
		TeacherCount:     len(s.Teachers),
		CoordinatorCount: len(s.Coordinators),
		ProjectCount:     len(s.Projects),
		TemplateCount:    len(s.Templates),
	}
	for _, inst := range s.Institutions {
		m.StudentCount += inst.StudentCount
		if inst.Status == domain.InstitutionActive {
			m.ActiveInstitutionCount++
		}
	}
	for _, rel := range s.Partners {
		if rel.Status == domain.RelationshipAccepted {
			m.CoPartnerCount++
		}
	}
	for _, p := range s.Projects {
		if p.Status == domain.ProgramStatusActive {
			m.ActiveProjectCount++
		}
	}
	for _, inv := range s.Invitations {
		if inv.Status == domain.InvitationPending {
			m.PendingInvitations++
		}
	}

	countries := newCountrySet()
	countries.add(s.Program.CountriesInScope...)
	for _, c := range s.Coordinators {
		countries.add(c.Country)
	}
	for _, inst := range s.Institutions {
		countries.add(inst.Country)
	}
	m.Countries = countries.list
	return m
}

// countrySet keeps first-seen order and skips blanks.
type countrySet struct {
	seen map[string]bool
	list []string
}

func newCountrySet() *countrySet {
	return &countrySet{seen: map[string]bool{}, list: []string{}}
}

func (c *countrySet) add(values ...string) {
	for _, v := range values {
		if v == "" || c.seen[v] {
			continue
		}
		c.seen[v] = true
		c.list = append(c.list, v)
	}
}

// SummariesForPartner summarizes every program ProgramsForPartner returns.
func SummariesForPartner(db *domain.Database, partnerID string, opts PartnerOptions) []ProgramSummary {
	programs := ProgramsForPartner(db, partnerID, opts)
	out := make([]ProgramSummary, 0, len(programs))
	for _, p := range programs {
		out = append(out, BuildProgramSummary(db, p))
	}
	return out
}

// FindSummaryByID summarizes the program with id.
func FindSummaryByID(db *domain.Database, programID string) (ProgramSummary, bool) {
	p, ok := domain.Programs.Find(db, programID)
	if !ok {
		return ProgramSummary{}, false
	}
	return BuildProgramSummary(db, p), true
}
