package programs

import (
	"strings"

	"partnerhub/pkg/domain"
)

// CurrentPartner resolves the signed-in session to its partner: first by a
// partner user with the session email, then by a partner whose name matches
// the session organization. Both comparisons ignore case.
func CurrentPartner(db *domain.Database, session domain.Session) (domain.Partner, bool) {
	if email := strings.TrimSpace(session.Email); email != "" {
		for _, u := range db.PartnerUsers {
			if !strings.EqualFold(u.Email, email) {
				continue
			}
			if p, ok := domain.Partners.Find(db, u.PartnerID); ok {
				return p, true
			}
		}
	}
	if org := strings.TrimSpace(session.Organization); org != "" {
		for _, p := range db.Partners {
			if strings.EqualFold(p.Name, org) {
				return p, true
			}
		}
	}
	return domain.Partner{}, false
}
