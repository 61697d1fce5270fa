package core

import (
	"encoding/json"
	"fmt"

	"partnerhub/pkg/domain"
)

// documentFields maps each top-level document key to the field of db that
// holds it. The pointers serve both encoding and decoding.
func documentFields(db *domain.Database) map[string]any {
	return map[string]any{
		string(domain.TablePartners):            &db.Partners,
		string(domain.TablePartnerUsers):        &db.PartnerUsers,
		string(domain.TablePrograms):            &db.Programs,
		string(domain.TableProgramPartners):     &db.ProgramPartners,
		string(domain.TableCoordinators):        &db.Coordinators,
		string(domain.TableInstitutions):        &db.Institutions,
		string(domain.TableInstitutionTeachers): &db.InstitutionTeachers,
		string(domain.TableProgramProjects):     &db.ProgramProjects,
		string(domain.TableProgramTemplates):    &db.ProgramTemplates,
		string(domain.TableInvitations):         &db.Invitations,
		string(domain.TableActivities):          &db.Activities,
		string(domain.TableResources):           &db.Resources,
		domain.MetadataBucket:                   &db.Metadata,
	}
}

func encodeDatabase(db *domain.Database) (domain.Buckets, error) {
	fields := documentFields(db)
	out := make(domain.Buckets, len(fields))
	for key, field := range fields {
		data, err := json.Marshal(field)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = data
	}
	return out, nil
}

// decodeDatabase decodes every bucket it recognizes. A bucket that fails to
// decode is reset to empty and reported; the remaining buckets survive.
func decodeDatabase(buckets domain.Buckets) (domain.Database, []error) {
	var db domain.Database
	var problems []error
	for key, field := range documentFields(&db) {
		raw, ok := buckets[key]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, field); err != nil {
			problems = append(problems, fmt.Errorf("decode %s: %w", key, err))
			if key == domain.MetadataBucket {
				db.Metadata = domain.Metadata{}
				continue
			}
			_ = json.Unmarshal([]byte("null"), field)
		}
	}
	return db, problems
}

// mergeWithDefaults upgrades a decoded document to the current schema. It
// reports false when the document comes from a newer, unknown schema, in
// which case the default document is returned instead.
func mergeWithDefaults(db domain.Database) (domain.Database, bool) {
	if db.Metadata.Version > domain.SchemaVersion {
		return domain.NewDatabase(), false
	}
	db.FillMissing()
	db.Metadata.Version = domain.SchemaVersion
	return db, true
}
