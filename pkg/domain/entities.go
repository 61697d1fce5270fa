// Package domain defines the persistent records, document shape, and
// collection descriptors shared by the partnerhub program engine.
package domain

import "time"

// Meta carries the identity and timestamps every record stores.
// ID and CreatedAt are assigned once; UpdatedAt changes on every update.
type Meta struct {
	ID        string    `json:"id" yaml:"id" validate:"required"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" yaml:"updatedAt,omitempty"`
}

// PartnerType classifies a partner organization.
type PartnerType string

const (
	// PartnerTypeNGO identifies a non-governmental organization.
	PartnerTypeNGO PartnerType = "ngo"
	// PartnerTypeGovernment identifies a government body.
	PartnerTypeGovernment PartnerType = "government"
	// PartnerTypeSchoolNetwork identifies a network of schools.
	PartnerTypeSchoolNetwork PartnerType = "school_network"
	// PartnerTypeCommercial identifies a commercial organization.
	PartnerTypeCommercial PartnerType = "commercial"
	// PartnerTypeOther covers any other organization type.
	PartnerTypeOther PartnerType = "other"
)

// VerificationStatus tracks partner verification.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
)

// Partner is an organization that owns or co-owns programs.
type Partner struct {
	Meta               `yaml:",inline"`
	Name               string             `json:"name" yaml:"name" validate:"required"`
	Type               PartnerType        `json:"type" yaml:"type" validate:"omitempty,oneof=ngo government school_network commercial other"`
	Description        string             `json:"description,omitempty" yaml:"description,omitempty"`
	Website            string             `json:"website,omitempty" yaml:"website,omitempty"`
	ContactEmail       string             `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone       string             `json:"contactPhone,omitempty" yaml:"contactPhone,omitempty"`
	Country            string             `json:"country,omitempty" yaml:"country,omitempty"`
	LogoURL            string             `json:"logo,omitempty" yaml:"logo,omitempty"`
	BrandColor         string             `json:"brandColor,omitempty" yaml:"brandColor,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus,omitempty" yaml:"verificationStatus,omitempty" validate:"omitempty,oneof=unverified pending verified"`
}

// PartnerUser links a person's login email to a partner organization.
type PartnerUser struct {
	Meta      `yaml:",inline"`
	PartnerID string `json:"partnerId" yaml:"partnerId" validate:"required"`
	Email     string `json:"email" yaml:"email" validate:"required,email"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty" validate:"omitempty,oneof=owner admin member"`
}

// ProgramStatus is the lifecycle state of a program or program project.
type ProgramStatus string

const (
	ProgramStatusDraft     ProgramStatus = "draft"
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusCompleted ProgramStatus = "completed"
	ProgramStatusArchived  ProgramStatus = "archived"
)

// Program is the aggregation root for coordinators, institutions, teachers,
// projects, templates, invitations, and activities.
type Program struct {
	Meta                  `yaml:",inline"`
	PartnerID             string        `json:"partnerId" yaml:"partnerId" validate:"required"`
	SupportingPartnerID   string        `json:"supportingPartnerId,omitempty" yaml:"supportingPartnerId,omitempty"`
	Name                  string        `json:"name" yaml:"name" validate:"required"`
	DisplayTitle          string        `json:"displayTitle,omitempty" yaml:"displayTitle,omitempty"`
	Tagline               string        `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Description           string        `json:"description,omitempty" yaml:"description,omitempty"`
	CountriesInScope      []string      `json:"countriesInScope" yaml:"countriesInScope,omitempty"`
	SDGFocus              []int         `json:"sdgFocus" yaml:"sdgFocus,omitempty" validate:"dive,min=1,max=17"`
	AgeRanges             []string      `json:"ageRanges,omitempty" yaml:"ageRanges,omitempty"`
	PedagogicalFrameworks []string      `json:"pedagogicalFrameworks,omitempty" yaml:"pedagogicalFrameworks,omitempty"`
	ProjectTypes          []string      `json:"projectTypes,omitempty" yaml:"projectTypes,omitempty"`
	StartDate             string        `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate               string        `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	IsPublic              bool          `json:"isPublic" yaml:"isPublic"`
	Status                ProgramStatus `json:"status" yaml:"status" validate:"omitempty,oneof=draft active completed archived"`
	LogoURL               string        `json:"logo,omitempty" yaml:"logo,omitempty"`
	BrandColor            string        `json:"brandColor,omitempty" yaml:"brandColor,omitempty"`
}

// Title returns the display title, falling back to the program name.
func (p Program) Title() string {
	if p.DisplayTitle != "" {
		return p.DisplayTitle
	}
	return p.Name
}

// PartnerRole is the role a partner holds on a program.
type PartnerRole string

const (
	PartnerRoleHost      PartnerRole = "host"
	PartnerRoleCoHost    PartnerRole = "co_host"
	PartnerRoleSponsor   PartnerRole = "sponsor"
	PartnerRoleAdvisor   PartnerRole = "advisor"
	PartnerRoleSupporter PartnerRole = "supporter"
)

// RelationshipStatus is the invitation lifecycle of a co-partner relationship.
type RelationshipStatus string

const (
	RelationshipInvited  RelationshipStatus = "invited"
	RelationshipAccepted RelationshipStatus = "accepted"
	RelationshipDeclined RelationshipStatus = "declined"
	RelationshipRemoved  RelationshipStatus = "removed"
)

// PartnerPermissions is the permission set granted through a relationship.
type PartnerPermissions struct {
	CanEditProgram        bool `json:"canEditProgram" yaml:"canEditProgram"`
	CanInviteCoordinators bool `json:"canInviteCoordinators" yaml:"canInviteCoordinators"`
	CanInviteInstitutions bool `json:"canInviteInstitutions" yaml:"canInviteInstitutions"`
	CanViewAnalytics      bool `json:"canViewAnalytics" yaml:"canViewAnalytics"`
	CanManageTemplates    bool `json:"canManageTemplates" yaml:"canManageTemplates"`
}

// ProgramPartner links a program to a partner with a role.
type ProgramPartner struct {
	Meta        `yaml:",inline"`
	ProgramID   string             `json:"programId" yaml:"programId" validate:"required"`
	PartnerID   string             `json:"partnerId" yaml:"partnerId" validate:"required"`
	Role        PartnerRole        `json:"role" yaml:"role" validate:"required,oneof=host co_host sponsor advisor supporter"`
	Permissions PartnerPermissions `json:"permissions" yaml:"permissions"`
	Status      RelationshipStatus `json:"status" yaml:"status" validate:"required,oneof=invited accepted declined removed"`
	InvitedByID string             `json:"invitedBy,omitempty" yaml:"invitedBy,omitempty"`
	RespondedAt *time.Time         `json:"respondedAt,omitempty" yaml:"respondedAt,omitempty"`
}

// CoordinatorStatus is the lifecycle of a country coordinator.
type CoordinatorStatus string

const (
	CoordinatorInvited  CoordinatorStatus = "invited"
	CoordinatorActive   CoordinatorStatus = "active"
	CoordinatorInactive CoordinatorStatus = "inactive"
)

// CountryCoordinator manages one country's participation in a program.
type CountryCoordinator struct {
	Meta      `yaml:",inline"`
	ProgramID string            `json:"programId" yaml:"programId" validate:"required"`
	PartnerID string            `json:"partnerId,omitempty" yaml:"partnerId,omitempty"`
	Name      string            `json:"name" yaml:"name" validate:"required"`
	Email     string            `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Country   string            `json:"country,omitempty" yaml:"country,omitempty"`
	Status    CoordinatorStatus `json:"status" yaml:"status" validate:"omitempty,oneof=invited active inactive"`
}

// InstitutionStatus is the lifecycle of an educational institution.
type InstitutionStatus string

const (
	InstitutionInvited   InstitutionStatus = "invited"
	InstitutionActive    InstitutionStatus = "active"
	InstitutionInactive  InstitutionStatus = "inactive"
	InstitutionWithdrawn InstitutionStatus = "withdrawn"
)

// EducationalInstitution is a school or learning center in a program.
type EducationalInstitution struct {
	Meta          `yaml:",inline"`
	ProgramID     string            `json:"programId" yaml:"programId" validate:"required"`
	CoordinatorID string            `json:"coordinatorId,omitempty" yaml:"coordinatorId,omitempty"`
	Name          string            `json:"name" yaml:"name" validate:"required"`
	Type          string            `json:"type,omitempty" yaml:"type,omitempty"`
	Country       string            `json:"country,omitempty" yaml:"country,omitempty"`
	City          string            `json:"city,omitempty" yaml:"city,omitempty"`
	StudentCount  int               `json:"studentCount" yaml:"studentCount" validate:"min=0"`
	TeacherCount  int               `json:"teacherCount" yaml:"teacherCount" validate:"min=0"`
	AgeRanges     []string          `json:"ageRanges,omitempty" yaml:"ageRanges,omitempty"`
	Status        InstitutionStatus `json:"status" yaml:"status" validate:"omitempty,oneof=invited active inactive withdrawn"`
}

// TeacherStatus is the lifecycle of an institution teacher.
type TeacherStatus string

const (
	TeacherInvited  TeacherStatus = "invited"
	TeacherActive   TeacherStatus = "active"
	TeacherInactive TeacherStatus = "inactive"
)

// InstitutionTeacher is a teacher of one institution within one program.
type InstitutionTeacher struct {
	Meta          `yaml:",inline"`
	ProgramID     string        `json:"programId" yaml:"programId" validate:"required"`
	InstitutionID string        `json:"institutionId" yaml:"institutionId" validate:"required"`
	Name          string        `json:"name" yaml:"name" validate:"required"`
	Email         string        `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Subject       string        `json:"subject,omitempty" yaml:"subject,omitempty"`
	Status        TeacherStatus `json:"status" yaml:"status" validate:"omitempty,oneof=invited active inactive"`
}

// CreatorType identifies who created a program project.
type CreatorType string

const (
	CreatorPartner     CreatorType = "partner"
	CreatorCoordinator CreatorType = "coordinator"
	CreatorTeacher     CreatorType = "teacher"
)

// ProgramProject is a collaborative project running under a program.
type ProgramProject struct {
	Meta           `yaml:",inline"`
	ProgramID      string        `json:"programId" yaml:"programId" validate:"required"`
	TemplateID     string        `json:"templateId,omitempty" yaml:"templateId,omitempty"`
	Title          string        `json:"title" yaml:"title" validate:"required"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedByType  CreatorType   `json:"createdByType" yaml:"createdByType" validate:"omitempty,oneof=partner coordinator teacher"`
	CreatedByID    string        `json:"createdById,omitempty" yaml:"createdById,omitempty"`
	InstitutionIDs []string      `json:"institutionIds,omitempty" yaml:"institutionIds,omitempty"`
	Status         ProgramStatus `json:"status" yaml:"status" validate:"omitempty,oneof=draft active completed archived"`
}

// ProgramProjectTemplate is a reusable project blueprint under a program.
type ProgramProjectTemplate struct {
	Meta                  `yaml:",inline"`
	ProgramID             string `json:"programId" yaml:"programId" validate:"required"`
	Title                 string `json:"title" yaml:"title" validate:"required"`
	Summary               string `json:"summary,omitempty" yaml:"summary,omitempty"`
	SDGAlignment          []int  `json:"sdgAlignment,omitempty" yaml:"sdgAlignment,omitempty" validate:"dive,min=1,max=17"`
	HeroImageURL          string `json:"heroImage,omitempty" yaml:"heroImage,omitempty"`
	RecommendedStartMonth string `json:"recommendedStartMonth,omitempty" yaml:"recommendedStartMonth,omitempty"`
	DurationWeeks         int    `json:"durationWeeks,omitempty" yaml:"durationWeeks,omitempty" validate:"min=0"`
}

// InvitationType identifies what a program invitation grants.
type InvitationType string

const (
	InvitationCoPartner   InvitationType = "co_partner"
	InvitationCoordinator InvitationType = "coordinator"
	InvitationInstitution InvitationType = "institution"
	InvitationTeacher     InvitationType = "teacher"
)

// InvitationStatus is the lifecycle of a program invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationViewed    InvitationStatus = "viewed"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// Open reports whether the invitation can still be answered.
func (s InvitationStatus) Open() bool {
	return s == InvitationPending || s == InvitationViewed
}

// ProgramInvitation is a pending action addressed to a person or partner.
type ProgramInvitation struct {
	Meta           `yaml:",inline"`
	ProgramID      string           `json:"programId" yaml:"programId" validate:"required"`
	InvitationType InvitationType   `json:"invitationType" yaml:"invitationType" validate:"required,oneof=co_partner coordinator institution teacher"`
	Email          string           `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	TargetID       string           `json:"targetId,omitempty" yaml:"targetId,omitempty"`
	InvitedByID    string           `json:"invitedBy,omitempty" yaml:"invitedBy,omitempty"`
	Token          string           `json:"token" yaml:"token"`
	ExpiresAt      time.Time        `json:"expiresAt,omitzero" yaml:"expiresAt,omitempty"`
	Status         InvitationStatus `json:"status" yaml:"status" validate:"omitempty,oneof=pending viewed accepted declined expired cancelled"`
	RespondedAt    *time.Time       `json:"respondedAt,omitempty" yaml:"respondedAt,omitempty"`
}

// ProgramActivity is an immutable audit record for a program.
// CreatedAt is the event timestamp.
type ProgramActivity struct {
	Meta        `yaml:",inline"`
	ProgramID   string `json:"programId" yaml:"programId" validate:"required"`
	Type        string `json:"type" yaml:"type" validate:"required"`
	ActorType   string `json:"actorType,omitempty" yaml:"actorType,omitempty"`
	ActorID     string `json:"actorId,omitempty" yaml:"actorId,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Resource is a partner-published learning resource.
type Resource struct {
	Meta      `yaml:",inline"`
	PartnerID string `json:"partnerId,omitempty" yaml:"partnerId,omitempty"`
	Title     string `json:"title" yaml:"title" validate:"required"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
}
