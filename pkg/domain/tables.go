package domain

import (
	"errors"
	"fmt"
)

// TableName names a collection in the document. The values double as the
// top-level keys of the persisted document.
type TableName string

const (
	TablePartners            TableName = "partners"
	TablePartnerUsers        TableName = "partnerUsers"
	TablePrograms            TableName = "programs"
	TableProgramPartners     TableName = "programPartners"
	TableCoordinators        TableName = "coordinators"
	TableInstitutions        TableName = "institutions"
	TableInstitutionTeachers TableName = "institutionTeachers"
	TableProgramProjects     TableName = "programProjects"
	TableProgramTemplates    TableName = "programTemplates"
	TableInvitations         TableName = "invitations"
	TableActivities          TableName = "activities"
	TableResources           TableName = "resources"
)

// MetadataBucket is the document key holding Metadata.
const MetadataBucket = "metadata"

// ErrUnknownTable is returned for table names outside the document schema.
var ErrUnknownTable = errors.New("unknown table")

// Table describes one typed collection of the document.
type Table[T any] struct {
	name TableName
	rows func(*Database) *[]T
	meta func(*T) *Meta
}

// Name returns the collection name.
func (t Table[T]) Name() TableName { return t.name }

// AppendOnly reports whether records of the collection are written once and
// never updated.
func (t Table[T]) AppendOnly() bool { return t.name == TableActivities }

// Meta returns the identity block of rec.
func (t Table[T]) Meta(rec *T) *Meta { return t.meta(rec) }

// Rows returns the collection slice held by db.
func (t Table[T]) Rows(db *Database) []T { return *t.rows(db) }

// Find returns the record with id.
func (t Table[T]) Find(db *Database, id string) (T, bool) {
	if i := t.index(db, id); i >= 0 {
		return (*t.rows(db))[i], true
	}
	var zero T
	return zero, false
}

// Where returns the records matching pred in stored order, never nil.
func (t Table[T]) Where(db *Database, pred func(T) bool) []T {
	out := []T{}
	for _, rec := range *t.rows(db) {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Append adds rec to the end of the collection.
func (t Table[T]) Append(db *Database, rec T) {
	rows := t.rows(db)
	*rows = append(*rows, rec)
}

// Replace overwrites the record sharing rec's id.
func (t Table[T]) Replace(db *Database, rec T) bool {
	i := t.index(db, t.meta(&rec).ID)
	if i < 0 {
		return false
	}
	(*t.rows(db))[i] = rec
	return true
}

// Remove deletes the record with id, preserving the order of the rest.
func (t Table[T]) Remove(db *Database, id string) bool {
	i := t.index(db, id)
	if i < 0 {
		return false
	}
	rows := t.rows(db)
	*rows = append((*rows)[:i], (*rows)[i+1:]...)
	return true
}

func (t Table[T]) index(db *Database, id string) int {
	rows := *t.rows(db)
	for i := range rows {
		if t.meta(&rows[i]).ID == id {
			return i
		}
	}
	return -1
}

// Typed descriptors for every collection.
var (
	Partners = Table[Partner]{TablePartners,
		func(db *Database) *[]Partner { return &db.Partners },
		func(r *Partner) *Meta { return &r.Meta }}
	PartnerUsers = Table[PartnerUser]{TablePartnerUsers,
		func(db *Database) *[]PartnerUser { return &db.PartnerUsers },
		func(r *PartnerUser) *Meta { return &r.Meta }}
	Programs = Table[Program]{TablePrograms,
		func(db *Database) *[]Program { return &db.Programs },
		func(r *Program) *Meta { return &r.Meta }}
	ProgramPartners = Table[ProgramPartner]{TableProgramPartners,
		func(db *Database) *[]ProgramPartner { return &db.ProgramPartners },
		func(r *ProgramPartner) *Meta { return &r.Meta }}
	Coordinators = Table[CountryCoordinator]{TableCoordinators,
		func(db *Database) *[]CountryCoordinator { return &db.Coordinators },
		func(r *CountryCoordinator) *Meta { return &r.Meta }}
	Institutions = Table[EducationalInstitution]{TableInstitutions,
		func(db *Database) *[]EducationalInstitution { return &db.Institutions },
		func(r *EducationalInstitution) *Meta { return &r.Meta }}
	InstitutionTeachers = Table[InstitutionTeacher]{TableInstitutionTeachers,
		func(db *Database) *[]InstitutionTeacher { return &db.InstitutionTeachers },
		func(r *InstitutionTeacher) *Meta { return &r.Meta }}
	ProgramProjects = Table[ProgramProject]{TableProgramProjects,
		func(db *Database) *[]ProgramProject { return &db.ProgramProjects },
		func(r *ProgramProject) *Meta { return &r.Meta }}
	ProgramTemplates = Table[ProgramProjectTemplate]{TableProgramTemplates,
		func(db *Database) *[]ProgramProjectTemplate { return &db.ProgramTemplates },
		func(r *ProgramProjectTemplate) *Meta { return &r.Meta }}
	Invitations = Table[ProgramInvitation]{TableInvitations,
		func(db *Database) *[]ProgramInvitation { return &db.Invitations },
		func(r *ProgramInvitation) *Meta { return &r.Meta }}
	Activities = Table[ProgramActivity]{TableActivities,
		func(db *Database) *[]ProgramActivity { return &db.Activities },
		func(r *ProgramActivity) *Meta { return &r.Meta }}
	Resources = Table[Resource]{TableResources,
		func(db *Database) *[]Resource { return &db.Resources },
		func(r *Resource) *Meta { return &r.Meta }}
)

// untyped exposes a Table without its type parameter.
type untyped interface {
	Name() TableName
	remove(db *Database, id string) bool
	size(db *Database) int
}

func (t Table[T]) remove(db *Database, id string) bool { return t.Remove(db, id) }
func (t Table[T]) size(db *Database) int               { return len(*t.rows(db)) }

// registry lists collections in document order.
var registry = []untyped{
	Partners, PartnerUsers, Programs, ProgramPartners, Coordinators, Institutions,
	InstitutionTeachers, ProgramProjects, ProgramTemplates, Invitations, Activities, Resources,
}

// TableNames returns every collection name in document order.
func TableNames() []TableName {
	out := make([]TableName, 0, len(registry))
	for _, t := range registry {
		out = append(out, t.Name())
	}
	return out
}

func lookup(name TableName) (untyped, error) {
	for _, t := range registry {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
}

// RemoveRecord deletes id from the named collection.
func RemoveRecord(db *Database, name TableName, id string) (bool, error) {
	t, err := lookup(name)
	if err != nil {
		return false, err
	}
	return t.remove(db, id), nil
}

// Count returns the size of the named collection.
func Count(db *Database, name TableName) (int, error) {
	t, err := lookup(name)
	if err != nil {
		return 0, err
	}
	return t.size(db), nil
}
