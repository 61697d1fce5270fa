package seed

import (
	"time"

	"partnerhub/pkg/domain"
)

func at(day int) domain.Meta {
	ts := time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC).AddDate(0, 0, day)
	return domain.Meta{CreatedAt: ts, UpdatedAt: ts}
}

func rec(id string, day int) domain.Meta {
	m := at(day)
	m.ID = id
	return m
}

// Demo returns the deterministic demo dataset: three partners, three
// programs (one private) and a populated graph around the flagship program.
func Demo() Dataset {
	respondedAt := time.Date(2025, time.January, 20, 12, 0, 0, 0, time.UTC)
	return Dataset{
		Partners: []domain.Partner{
			{Meta: rec("partner-ocean", 0), Name: "Ocean Schools Alliance", Type: domain.PartnerTypeNGO, Country: "DK",
				ContactEmail: "hello@oceanschools.org", LogoURL: "/images/partners/ocean.png", BrandColor: "#0B6E99",
				VerificationStatus: domain.VerificationVerified},
			{Meta: rec("partner-green", 1), Name: "Green Futures Foundation", Type: domain.PartnerTypeNGO, Country: "IT",
				ContactEmail: "team@greenfutures.org", LogoURL: "/images/partners/green.png", BrandColor: "#2E7D32",
				VerificationStatus: domain.VerificationPending},
			{Meta: rec("partner-ministry", 2), Name: "Nordic Education Office", Type: domain.PartnerTypeGovernment, Country: "SE",
				VerificationStatus: domain.VerificationUnverified},
		},
		PartnerUsers: []domain.PartnerUser{
			{Meta: rec("user-ocean-owner", 0), PartnerID: "partner-ocean", Email: "ana@oceanschools.org", Name: "Ana Berg", Role: "owner"},
			{Meta: rec("user-green-admin", 1), PartnerID: "partner-green", Email: "luca@greenfutures.org", Name: "Luca Romano", Role: "admin"},
		},
		Programs: []domain.Program{
			{Meta: rec("program-climate", 3), PartnerID: "partner-ocean", SupportingPartnerID: "partner-green",
				Name: "Young Climate Voices", DisplayTitle: "Young Climate Voices 2025",
				Tagline:          "Students investigate climate change in their own coastline",
				Description:      "A cross-border program where classes document local climate effects and share findings.",
				CountriesInScope: []string{"DK", "IT"}, SDGFocus: []int{4, 13, 14}, AgeRanges: []string{"12-15"},
				PedagogicalFrameworks: []string{"project-based learning"}, ProjectTypes: []string{"research", "media"},
				StartDate: "2025-09-01", EndDate: "2026-06-30", IsPublic: true, Status: domain.ProgramStatusActive},
			{Meta: rec("program-water", 5), PartnerID: "partner-green",
				Name: "Clean Water Labs", CountriesInScope: []string{"IT", "ES"}, SDGFocus: []int{6},
				StartDate: "2026-02-01", IsPublic: true, Status: domain.ProgramStatusDraft},
			{Meta: rec("program-pilot", 7), PartnerID: "partner-ministry",
				Name: "Digital Classroom Pilot", CountriesInScope: []string{"SE"}, SDGFocus: []int{4, 9},
				IsPublic: false, Status: domain.ProgramStatusDraft},
		},
		ProgramPartners: []domain.ProgramPartner{
			{Meta: rec("rel-climate-host", 3), ProgramID: "program-climate", PartnerID: "partner-ocean", Role: domain.PartnerRoleHost,
				Status: domain.RelationshipAccepted, Permissions: domain.PartnerPermissions{CanEditProgram: true, CanInviteCoordinators: true,
					CanInviteInstitutions: true, CanViewAnalytics: true, CanManageTemplates: true}},
			{Meta: rec("rel-climate-green", 4), ProgramID: "program-climate", PartnerID: "partner-green", Role: domain.PartnerRoleSupporter,
				Status: domain.RelationshipAccepted, InvitedByID: "partner-ocean", RespondedAt: &respondedAt,
				Permissions: domain.PartnerPermissions{CanViewAnalytics: true}},
			{Meta: rec("rel-climate-ministry", 6), ProgramID: "program-climate", PartnerID: "partner-ministry", Role: domain.PartnerRoleAdvisor,
				Status: domain.RelationshipInvited, InvitedByID: "partner-ocean"},
			{Meta: rec("rel-water-host", 5), ProgramID: "program-water", PartnerID: "partner-green", Role: domain.PartnerRoleHost,
				Status: domain.RelationshipAccepted},
		},
		Coordinators: []domain.CountryCoordinator{
			{Meta: rec("coord-dk", 4), ProgramID: "program-climate", Name: "Mette Larsen", Email: "mette@oceanschools.org", Country: "DK", Status: domain.CoordinatorActive},
			{Meta: rec("coord-no", 4), ProgramID: "program-climate", Name: "Ola Nordmann", Email: "ola@oceanschools.org", Country: "NO", Status: domain.CoordinatorInvited},
			{Meta: rec("coord-es", 6), ProgramID: "program-water", Name: "Lucia Gomez", Country: "ES", Status: domain.CoordinatorActive},
		},
		Institutions: []domain.EducationalInstitution{
			{Meta: rec("inst-aarhus", 8), ProgramID: "program-climate", CoordinatorID: "coord-dk", Name: "Aarhus Harbour School",
				Type: "secondary", Country: "DK", City: "Aarhus", StudentCount: 120, TeacherCount: 8, Status: domain.InstitutionActive},
			{Meta: rec("inst-bergen", 9), ProgramID: "program-climate", CoordinatorID: "coord-no", Name: "Bergen Fjord Academy",
				Type: "secondary", Country: "NO", City: "Bergen", StudentCount: 85, TeacherCount: 5, Status: domain.InstitutionInvited},
			{Meta: rec("inst-genoa", 9), ProgramID: "program-climate", Name: "Liceo del Mare",
				Country: "IT", City: "Genoa", StudentCount: 60, TeacherCount: 4, Status: domain.InstitutionActive},
			{Meta: rec("inst-valencia", 10), ProgramID: "program-water", CoordinatorID: "coord-es", Name: "Colegio Turia",
				Country: "ES", City: "Valencia", StudentCount: 45, TeacherCount: 3, Status: domain.InstitutionActive},
		},
		InstitutionTeachers: []domain.InstitutionTeacher{
			{Meta: rec("teacher-sofie", 10), ProgramID: "program-climate", InstitutionID: "inst-aarhus", Name: "Sofie Holm", Subject: "Geography", Status: domain.TeacherActive},
			{Meta: rec("teacher-marco", 11), ProgramID: "program-climate", InstitutionID: "inst-genoa", Name: "Marco Bianchi", Subject: "Science", Status: domain.TeacherActive},
			{Meta: rec("teacher-ines", 12), ProgramID: "program-water", InstitutionID: "inst-valencia", Name: "Ines Ruiz", Subject: "Chemistry", Status: domain.TeacherInvited},
		},
		ProgramProjects: []domain.ProgramProject{
			{Meta: rec("project-coastline", 12), ProgramID: "program-climate", TemplateID: "template-coastline", Title: "Mapping Our Coastline",
				CreatedByType: domain.CreatorTeacher, CreatedByID: "teacher-sofie", InstitutionIDs: []string{"inst-aarhus", "inst-genoa"}, Status: domain.ProgramStatusActive},
			{Meta: rec("project-podcast", 14), ProgramID: "program-climate", Title: "Climate Voices Podcast",
				CreatedByType: domain.CreatorPartner, CreatedByID: "partner-ocean", Status: domain.ProgramStatusDraft},
		},
		ProgramTemplates: []domain.ProgramProjectTemplate{
			{Meta: rec("template-coastline", 4), ProgramID: "program-climate", Title: "Coastline Observation",
				Summary: "Students log weekly observations of their local shoreline.", SDGAlignment: []int{13, 14},
				HeroImageURL: "/images/templates/coastline.jpg", RecommendedStartMonth: "September", DurationWeeks: 10},
			{Meta: rec("template-water", 6), ProgramID: "program-water", Title: "Water Quality Sampling",
				SDGAlignment: []int{6}, DurationWeeks: 6},
		},
		Invitations: []domain.ProgramInvitation{
			{Meta: rec("invite-ministry", 6), ProgramID: "program-climate", InvitationType: domain.InvitationCoPartner,
				TargetID: "partner-ministry", InvitedByID: "partner-ocean", Token: "demo-token-ministry",
				ExpiresAt: time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), Status: domain.InvitationPending},
			{Meta: rec("invite-teacher", 11), ProgramID: "program-climate", InvitationType: domain.InvitationTeacher,
				Email: "erik@bergenfjord.no", InvitedByID: "coord-no", Token: "demo-token-teacher",
				ExpiresAt: time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), Status: domain.InvitationViewed},
		},
		Activities: []domain.ProgramActivity{
			{Meta: rec("activity-climate-created", 3), ProgramID: "program-climate", Type: "program_created", ActorType: "partner", ActorID: "partner-ocean",
				Description: "Program created"},
			{Meta: rec("activity-green-joined", 4), ProgramID: "program-climate", Type: "invitation_accepted", ActorType: "partner", ActorID: "partner-green",
				Description: "Green Futures Foundation joined as supporter"},
			{Meta: rec("activity-water-created", 5), ProgramID: "program-water", Type: "program_created", ActorType: "partner", ActorID: "partner-green",
				Description: "Program created"},
		},
		Resources: []domain.Resource{
			{Meta: rec("resource-toolkit", 2), PartnerID: "partner-ocean", Title: "Coastal Field Work Toolkit", Type: "guide",
				URL: "https://example.org/toolkit.pdf", Language: "en"},
		},
	}
}
