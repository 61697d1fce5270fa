package domain

import "time"

// SchemaVersion is the current document schema version. Bump it together
// with DefaultStorageKey on a breaking change.
const SchemaVersion = 3

// DefaultStorageKey identifies the persisted document. Documents stored
// under earlier keys are ignored.
const DefaultStorageKey = "partnerhub-prototype-db-v3"

// Metadata describes the persisted document itself.
type Metadata struct {
	Version  int        `json:"version"`
	SeededAt *time.Time `json:"seededAt"`
}

// Database is the single document holding every record collection.
// Relationships are foreign-key fields; joins are computed on read.
type Database struct {
	Partners            []Partner                `json:"partners"`
	PartnerUsers        []PartnerUser            `json:"partnerUsers"`
	Programs            []Program                `json:"programs"`
	ProgramPartners     []ProgramPartner         `json:"programPartners"`
	Coordinators        []CountryCoordinator     `json:"coordinators"`
	Institutions        []EducationalInstitution `json:"institutions"`
	InstitutionTeachers []InstitutionTeacher     `json:"institutionTeachers"`
	ProgramProjects     []ProgramProject         `json:"programProjects"`
	ProgramTemplates    []ProgramProjectTemplate `json:"programTemplates"`
	Invitations         []ProgramInvitation      `json:"invitations"`
	Activities          []ProgramActivity        `json:"activities"`
	Resources           []Resource               `json:"resources"`
	Metadata            Metadata                 `json:"metadata"`
}

// NewDatabase returns a structurally complete empty document: every
// collection is present and empty, and seededAt is unset.
func NewDatabase() Database {
	return Database{
		Partners:            []Partner{},
		PartnerUsers:        []PartnerUser{},
		Programs:            []Program{},
		ProgramPartners:     []ProgramPartner{},
		Coordinators:        []CountryCoordinator{},
		Institutions:        []EducationalInstitution{},
		InstitutionTeachers: []InstitutionTeacher{},
		ProgramProjects:     []ProgramProject{},
		ProgramTemplates:    []ProgramProjectTemplate{},
		Invitations:         []ProgramInvitation{},
		Activities:          []ProgramActivity{},
		Resources:           []Resource{},
		Metadata:            Metadata{Version: SchemaVersion},
	}
}

// FillMissing replaces nil collections with empty ones so a document
// written by an older schema gains the newer collections.
func (db *Database) FillMissing() {
	if db.Partners == nil {
		db.Partners = []Partner{}
	}
	if db.PartnerUsers == nil {
		db.PartnerUsers = []PartnerUser{}
	}
	if db.Programs == nil {
		db.Programs = []Program{}
	}
	if db.ProgramPartners == nil {
		db.ProgramPartners = []ProgramPartner{}
	}
	if db.Coordinators == nil {
		db.Coordinators = []CountryCoordinator{}
	}
	if db.Institutions == nil {
		db.Institutions = []EducationalInstitution{}
	}
	if db.InstitutionTeachers == nil {
		db.InstitutionTeachers = []InstitutionTeacher{}
	}
	if db.ProgramProjects == nil {
		db.ProgramProjects = []ProgramProject{}
	}
	if db.ProgramTemplates == nil {
		db.ProgramTemplates = []ProgramProjectTemplate{}
	}
	if db.Invitations == nil {
		db.Invitations = []ProgramInvitation{}
	}
	if db.Activities == nil {
		db.Activities = []ProgramActivity{}
	}
	if db.Resources == nil {
		db.Resources = []Resource{}
	}
}
