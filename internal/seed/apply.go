package seed

import (
	"context"
	"fmt"

	"partnerhub/internal/core"
	"partnerhub/pkg/domain"
)

// ApplyOptions tunes Apply.
type ApplyOptions struct {
	// Replace discards the current document before loading the dataset.
	Replace bool
}

// Apply validates d and writes it in one transaction, stamping
// metadata.seededAt. Records keep their fixture ids; an id already present
// in the store fails the whole load. With Replace the dataset becomes the
// whole document, which also recovers a store whose stored document could
// not be read.
func Apply(ctx context.Context, store *core.Store, d Dataset, opts ApplyOptions) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return store.RunInTransaction(ctx, "seed", func(tx *core.Tx) error {
		if opts.Replace {
			tx.Replace(domain.NewDatabase())
		}
		steps := []func() error{
			func() error { return insertAll(tx, domain.Partners, d.Partners) },
			func() error { return insertAll(tx, domain.PartnerUsers, d.PartnerUsers) },
			func() error { return insertAll(tx, domain.Programs, d.Programs) },
			func() error { return insertAll(tx, domain.ProgramPartners, d.ProgramPartners) },
			func() error { return insertAll(tx, domain.Coordinators, d.Coordinators) },
			func() error { return insertAll(tx, domain.Institutions, d.Institutions) },
			func() error { return insertAll(tx, domain.InstitutionTeachers, d.InstitutionTeachers) },
			func() error { return insertAll(tx, domain.ProgramProjects, d.ProgramProjects) },
			func() error { return insertAll(tx, domain.ProgramTemplates, d.ProgramTemplates) },
			func() error { return insertAll(tx, domain.Invitations, d.Invitations) },
			func() error { return insertAll(tx, domain.Activities, d.Activities) },
			func() error { return insertAll(tx, domain.Resources, d.Resources) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		tx.SetSeededAt(tx.Now())
		return nil
	})
}

func insertAll[T any](tx *core.Tx, table domain.Table[T], rows []T) error {
	for _, r := range rows {
		if _, err := core.Insert(tx, table, r); err != nil {
			return fmt.Errorf("seed %s: %w", table.Name(), err)
		}
	}
	return nil
}
