package programs

import (
	"time"

	"partnerhub/pkg/domain"
)

var baseTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func meta(id string, ageDays int) domain.Meta {
	ts := baseTime.Add(time.Duration(ageDays) * 24 * time.Hour)
	return domain.Meta{ID: id, CreatedAt: ts, UpdatedAt: ts}
}

// graph builds a document with two partners and a fully populated program
// "prog-y" owned by partner-a.
func graph() *domain.Database {
	db := domain.NewDatabase()
	db.Partners = []domain.Partner{
		{Meta: meta("partner-a", 0), Name: "Ocean Schools", LogoURL: "a.png", BrandColor: "#004488"},
		{Meta: meta("partner-b", 0), Name: "Green Futures", LogoURL: "b.png"},
	}
	db.PartnerUsers = []domain.PartnerUser{
		{Meta: meta("user-1", 0), PartnerID: "partner-b", Email: "Lead@GreenFutures.org"},
	}
	db.Programs = []domain.Program{
		{Meta: meta("prog-y", 1), PartnerID: "partner-a", Name: "Young Climate Voices", CountriesInScope: []string{"DK"}, IsPublic: true, Status: domain.ProgramStatusActive},
	}
	db.ProgramPartners = []domain.ProgramPartner{
		{Meta: meta("rel-1", 1), ProgramID: "prog-y", PartnerID: "partner-a", Role: domain.PartnerRoleHost, Status: domain.RelationshipAccepted},
		{Meta: meta("rel-2", 1), ProgramID: "prog-y", PartnerID: "partner-b", Role: domain.PartnerRoleSponsor, Status: domain.RelationshipInvited},
	}
	db.Coordinators = []domain.CountryCoordinator{
		{Meta: meta("coord-1", 1), ProgramID: "prog-y", Name: "Mette", Country: "DK", Status: domain.CoordinatorActive},
	}
	db.Institutions = []domain.EducationalInstitution{
		{Meta: meta("inst-1", 1), ProgramID: "prog-y", CoordinatorID: "coord-1", Name: "Aarhus School", Country: "SE", StudentCount: 40, Status: domain.InstitutionActive},
	}
	db.InstitutionTeachers = []domain.InstitutionTeacher{
		{Meta: meta("teacher-1", 1), ProgramID: "prog-y", InstitutionID: "inst-1", Name: "Lars"},
	}
	db.ProgramProjects = []domain.ProgramProject{
		{Meta: meta("proj-1", 1), ProgramID: "prog-y", Title: "Water Watch", Status: domain.ProgramStatusActive},
	}
	db.ProgramTemplates = []domain.ProgramProjectTemplate{
		{Meta: meta("tmpl-1", 1), ProgramID: "prog-y", Title: "Plastic Audit"},
	}
	db.Invitations = []domain.ProgramInvitation{
		{Meta: meta("inv-1", 1), ProgramID: "prog-y", InvitationType: domain.InvitationTeacher, Token: "t-1", Status: domain.InvitationPending},
	}
	db.Activities = []domain.ProgramActivity{
		{Meta: meta("act-1", 1), ProgramID: "prog-y", Type: ActivityProgramCreated},
	}
	return &db
}
