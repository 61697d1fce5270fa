package programs

import (
	"fmt"

	"partnerhub/pkg/domain"
)

// DeleteFunc removes one record and reports whether it existed.
type DeleteFunc func(table domain.TableName, id string) (bool, error)

// CascadeError names the delete step that stopped a cascade.
type CascadeError struct {
	ProgramID string
	Table     domain.TableName
	ID        string
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete program %s: delete %s %s: %v", e.ProgramID, e.Table, e.ID, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

type dependent struct {
	table domain.TableName
	ids   []string
}

// dependents lists every record referencing programID, grouped by table in
// deletion order.
func dependents(db *domain.Database, programID string) []dependent {
	s := BuildProgramSummary(db, domain.Program{Meta: domain.Meta{ID: programID}})
	return []dependent{
		{domain.TableProgramPartners, idsOf(s.Partners, func(r domain.ProgramPartner) string { return r.ID })},
		{domain.TableCoordinators, idsOf(s.Coordinators, func(r domain.CountryCoordinator) string { return r.ID })},
		{domain.TableInstitutions, idsOf(s.Institutions, func(r domain.EducationalInstitution) string { return r.ID })},
		{domain.TableInstitutionTeachers, idsOf(s.Teachers, func(r domain.InstitutionTeacher) string { return r.ID })},
		{domain.TableProgramProjects, idsOf(s.Projects, func(r domain.ProgramProject) string { return r.ID })},
		{domain.TableProgramTemplates, idsOf(s.Templates, func(r domain.ProgramProjectTemplate) string { return r.ID })},
		{domain.TableInvitations, idsOf(s.Invitations, func(r domain.ProgramInvitation) string { return r.ID })},
		{domain.TableActivities, idsOf(s.Activities, func(r domain.ProgramActivity) string { return r.ID })},
	}
}

func idsOf[T any](rows []T, id func(T) string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

// CascadeDeleteProgram deletes every record referencing programID through
// deleteFn and then the program itself. The program goes last so no reader
// sees a dependent whose program is gone. The first failing step stops the
// cascade and is returned as a *CascadeError. It reports whether the program
// record existed.
func CascadeDeleteProgram(db *domain.Database, programID string, deleteFn DeleteFunc) (bool, error) {
	for _, dep := range dependents(db, programID) {
		for _, id := range dep.ids {
			if _, err := deleteFn(dep.table, id); err != nil {
				return false, &CascadeError{ProgramID: programID, Table: dep.table, ID: id, Err: err}
			}
		}
	}
	removed, err := deleteFn(domain.TablePrograms, programID)
	if err != nil {
		return false, &CascadeError{ProgramID: programID, Table: domain.TablePrograms, ID: programID, Err: err}
	}
	return removed, nil
}
