// Package seed provides the demo dataset and YAML fixture import for the
// record store.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"partnerhub/pkg/domain"
)

// Dataset is a set of records to load into the store, one list per
// collection. It mirrors the stored document without metadata.
type Dataset struct {
	Partners            []domain.Partner                `yaml:"partners,omitempty" validate:"dive"`
	PartnerUsers        []domain.PartnerUser            `yaml:"partnerUsers,omitempty" validate:"dive"`
	Programs            []domain.Program                `yaml:"programs,omitempty" validate:"dive"`
	ProgramPartners     []domain.ProgramPartner         `yaml:"programPartners,omitempty" validate:"dive"`
	Coordinators        []domain.CountryCoordinator     `yaml:"coordinators,omitempty" validate:"dive"`
	Institutions        []domain.EducationalInstitution `yaml:"institutions,omitempty" validate:"dive"`
	InstitutionTeachers []domain.InstitutionTeacher     `yaml:"institutionTeachers,omitempty" validate:"dive"`
	ProgramProjects     []domain.ProgramProject         `yaml:"programProjects,omitempty" validate:"dive"`
	ProgramTemplates    []domain.ProgramProjectTemplate `yaml:"programTemplates,omitempty" validate:"dive"`
	Invitations         []domain.ProgramInvitation      `yaml:"invitations,omitempty" validate:"dive"`
	Activities          []domain.ProgramActivity        `yaml:"activities,omitempty" validate:"dive"`
	Resources           []domain.Resource               `yaml:"resources,omitempty" validate:"dive"`
}

// Size returns the number of records in the dataset.
func (d Dataset) Size() int {
	return len(d.Partners) + len(d.PartnerUsers) + len(d.Programs) + len(d.ProgramPartners) +
		len(d.Coordinators) + len(d.Institutions) + len(d.InstitutionTeachers) + len(d.ProgramProjects) +
		len(d.ProgramTemplates) + len(d.Invitations) + len(d.Activities) + len(d.Resources)
}

// ErrInvalidDataset wraps every dataset validation failure.
var ErrInvalidDataset = errors.New("invalid dataset")

var validate = validator.New()

// Validate checks field constraints and that every programId, partnerId and
// institutionId reference resolves within the dataset.
func (d Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	partners := ids(d.Partners, func(p domain.Partner) string { return p.ID })
	programs := ids(d.Programs, func(p domain.Program) string { return p.ID })
	institutions := ids(d.Institutions, func(i domain.EducationalInstitution) string { return i.ID })

	var errs []error
	ref := func(kind, id, field, target string, known map[string]bool) {
		if target != "" && !known[target] {
			errs = append(errs, fmt.Errorf("%s %s: unknown %s %q", kind, id, field, target))
		}
	}
	for _, r := range d.PartnerUsers {
		ref("partnerUser", r.ID, "partnerId", r.PartnerID, partners)
	}
	for _, r := range d.Programs {
		ref("program", r.ID, "partnerId", r.PartnerID, partners)
		ref("program", r.ID, "supportingPartnerId", r.SupportingPartnerID, partners)
	}
	for _, r := range d.ProgramPartners {
		ref("programPartner", r.ID, "programId", r.ProgramID, programs)
		ref("programPartner", r.ID, "partnerId", r.PartnerID, partners)
	}
	for _, r := range d.Coordinators {
		ref("coordinator", r.ID, "programId", r.ProgramID, programs)
	}
	for _, r := range d.Institutions {
		ref("institution", r.ID, "programId", r.ProgramID, programs)
	}
	for _, r := range d.InstitutionTeachers {
		ref("teacher", r.ID, "programId", r.ProgramID, programs)
		ref("teacher", r.ID, "institutionId", r.InstitutionID, institutions)
	}
	for _, r := range d.ProgramProjects {
		ref("project", r.ID, "programId", r.ProgramID, programs)
	}
	for _, r := range d.ProgramTemplates {
		ref("template", r.ID, "programId", r.ProgramID, programs)
	}
	for _, r := range d.Invitations {
		ref("invitation", r.ID, "programId", r.ProgramID, programs)
	}
	for _, r := range d.Activities {
		ref("activity", r.ID, "programId", r.ProgramID, programs)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, errors.Join(errs...))
	}
	return nil
}

func ids[T any](rows []T, id func(T) string) map[string]bool {
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[id(r)] = true
	}
	return out
}

// Parse decodes and validates a YAML fixture. Unknown keys are rejected.
func Parse(r io.Reader) (Dataset, error) {
	var d Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, nil
		}
		return Dataset{}, fmt.Errorf("decode fixture: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

// LoadFile reads a YAML fixture from path.
func LoadFile(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read fixture: %w", err)
	}
	d, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// FromDatabase copies every collection of db into a dataset, so a stored
// document can be written out as a fixture and loaded again.
func FromDatabase(db domain.Database) Dataset {
	return Dataset{
		Partners:            db.Partners,
		PartnerUsers:        db.PartnerUsers,
		Programs:            db.Programs,
		ProgramPartners:     db.ProgramPartners,
		Coordinators:        db.Coordinators,
		Institutions:        db.Institutions,
		InstitutionTeachers: db.InstitutionTeachers,
		ProgramProjects:     db.ProgramProjects,
		ProgramTemplates:    db.ProgramTemplates,
		Invitations:         db.Invitations,
		Activities:          db.Activities,
		Resources:           db.Resources,
	}
}

// Marshal renders the dataset as a YAML fixture.
func Marshal(d Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
