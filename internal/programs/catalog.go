package programs

import (
	"time"

	"partnerhub/pkg/domain"
)

// PartnerRef is the display view of a partner on a catalog card.
type PartnerRef struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	LogoURL    string             `json:"logo,omitempty"`
	BrandColor string             `json:"brandColor,omitempty"`
	Role       domain.PartnerRole `json:"role,omitempty"`
}

// CatalogMetrics is the compact metrics snapshot shown in the catalog.
type CatalogMetrics struct {
	TemplateCount      int `json:"templateCount"`
	ActiveProjectCount int `json:"activeProjectCount"`
	InstitutionCount   int `json:"institutionCount"`
	CountryCount       int `json:"countryCount"`
	StudentCount       int `json:"studentCount"`
}

// CatalogItem is one program as presented for discovery, independent of
// which partner is browsing.
type CatalogItem struct {
	ID                string                          `json:"id"`
	Name              string                          `json:"name"`
	DisplayTitle      string                          `json:"displayTitle"`
	Tagline           string                          `json:"tagline,omitempty"`
	Description       string                          `json:"description,omitempty"`
	Status            domain.ProgramStatus            `json:"status"`
	IsPublic          bool                            `json:"isPublic"`
	Host              *PartnerRef                     `json:"host,omitempty"`
	SupportingPartner *PartnerRef                     `json:"supportingPartner,omitempty"`
	CoverImage        string                          `json:"coverImage,omitempty"`
	BrandColor        string                          `json:"brandColor,omitempty"`
	SDGFocus          []int                           `json:"sdgFocus"`
	StartMonthLabel   string                          `json:"startMonthLabel,omitempty"`
	Metrics           CatalogMetrics                  `json:"metrics"`
	Templates         []domain.ProgramProjectTemplate `json:"templates"`
}

// CatalogOptions controls catalog visibility.
type CatalogOptions struct {
	IncludePrivate bool
}

// BuildCatalog lists programs newest first. Non-public programs are left out
// unless IncludePrivate is set.
func BuildCatalog(db *domain.Database, opts CatalogOptions) []CatalogItem {
	candidates := domain.Programs.Where(db, func(p domain.Program) bool { return p.IsPublic || opts.IncludePrivate })
	newestFirst(candidates)
	out := make([]CatalogItem, 0, len(candidates))
	for _, p := range candidates {
		out = append(out, buildCatalogItem(db, BuildProgramSummary(db, p)))
	}
	return out
}

func buildCatalogItem(db *domain.Database, s ProgramSummary) CatalogItem {
	p := s.Program
	host := ResolveHost(db, s)
	item := CatalogItem{
		ID:                p.ID,
		Name:              p.Name,
		DisplayTitle:      p.Title(),
		Tagline:           p.Tagline,
		Description:       p.Description,
		Status:            p.Status,
		IsPublic:          p.IsPublic,
		Host:              host,
		SupportingPartner: ResolveSupportingPartner(db, s),
		CoverImage:        coverImage(s, host),
		BrandColor:        p.BrandColor,
		SDGFocus:          p.SDGFocus,
		StartMonthLabel:   startMonthLabel(s),
		Metrics: CatalogMetrics{
			TemplateCount:      s.Metrics.TemplateCount,
			ActiveProjectCount: s.Metrics.ActiveProjectCount,
			InstitutionCount:   s.Metrics.InstitutionCount,
			CountryCount:       len(s.Metrics.Countries),
			StudentCount:       s.Metrics.StudentCount,
		},
		Templates: s.Templates,
	}
	if item.BrandColor == "" && host != nil {
		item.BrandColor = host.BrandColor
	}
	if item.SDGFocus == nil {
		item.SDGFocus = []int{}
	}
	return item
}

// ResolveHost returns the hosting partner: the partner of the program's
// host relationship, else the partner named by the program's partnerId.
func ResolveHost(db *domain.Database, s ProgramSummary) *PartnerRef {
	for _, rel := range s.Partners {
		if rel.Role != domain.PartnerRoleHost {
			continue
		}
		if partner, ok := domain.Partners.Find(db, rel.PartnerID); ok {
			return partnerRef(partner, domain.PartnerRoleHost)
		}
	}
	if partner, ok := domain.Partners.Find(db, s.Program.PartnerID); ok {
		return partnerRef(partner, domain.PartnerRoleHost)
	}
	return nil
}

// ResolveSupportingPartner returns the partner named by the program's
// supportingPartnerId when a relationship links it to the program.
func ResolveSupportingPartner(db *domain.Database, s ProgramSummary) *PartnerRef {
	id := s.Program.SupportingPartnerID
	if id == "" {
		return nil
	}
	for _, rel := range s.Partners {
		if rel.PartnerID != id {
			continue
		}
		if partner, ok := domain.Partners.Find(db, id); ok {
			return partnerRef(partner, rel.Role)
		}
	}
	return nil
}

func partnerRef(p domain.Partner, role domain.PartnerRole) *PartnerRef {
	return &PartnerRef{ID: p.ID, Name: p.Name, LogoURL: p.LogoURL, BrandColor: p.BrandColor, Role: role}
}

func coverImage(s ProgramSummary, host *PartnerRef) string {
	for _, t := range s.Templates {
		if t.HeroImageURL != "" {
			return t.HeroImageURL
		}
	}
	if s.Program.LogoURL != "" {
		return s.Program.LogoURL
	}
	if host != nil {
		return host.LogoURL
	}
	return ""
}

var startDateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01"}

// startMonthLabel prefers the first template's recommended month as
// written, then the program start date rendered as "January 2006".
func startMonthLabel(s ProgramSummary) string {
	if len(s.Templates) > 0 && s.Templates[0].RecommendedStartMonth != "" {
		return s.Templates[0].RecommendedStartMonth
	}
	if s.Program.StartDate == "" {
		return ""
	}
	for _, layout := range startDateLayouts {
		if ts, err := time.Parse(layout, s.Program.StartDate); err == nil {
			return ts.Format("January 2006")
		}
	}
	return ""
}
