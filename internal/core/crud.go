package core

import (
	"context"
	"fmt"
	"time"

	"partnerhub/pkg/domain"
)

// Tx is the working copy of the document inside RunInTransaction.
type Tx struct {
	db       domain.Database
	now      time.Time
	newID    func() string
	changed  bool
	replaced bool
}

// View returns the working document. Mutating it directly bypasses change
// tracking; use the package helpers or Replace.
func (tx *Tx) View() *domain.Database { return &tx.db }

// Now returns the transaction timestamp shared by every record it touches.
func (tx *Tx) Now() time.Time { return tx.now }

// Replace swaps the working document for db. The result no longer depends on
// what was loaded, so it is written even when the load was degraded.
func (tx *Tx) Replace(db domain.Database) {
	tx.db = db
	tx.changed = true
	tx.replaced = true
}

// SetSeededAt stamps the document metadata.
func (tx *Tx) SetSeededAt(at time.Time) {
	tx.db.Metadata.SeededAt = &at
	tx.changed = true
}

// Insert appends rec to table. A missing id is generated and createdAt is
// stamped when unset. Records of append-only tables carry no updatedAt.
func Insert[T any](tx *Tx, table domain.Table[T], rec T) (T, error) {
	m := table.Meta(&rec)
	if m.ID == "" {
		m.ID = tx.newID()
	} else if _, exists := table.Find(&tx.db, m.ID); exists {
		return rec, fmt.Errorf("%w: %s %s", ErrDuplicateID, table.Name(), m.ID)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = tx.now
	}
	switch {
	case table.AppendOnly():
		m.UpdatedAt = time.Time{}
	case m.UpdatedAt.IsZero():
		m.UpdatedAt = m.CreatedAt
	}
	table.Append(&tx.db, rec)
	tx.changed = true
	return rec, nil
}

// Patch applies mutate to the record with id. The id and createdAt survive
// whatever mutate does; updatedAt is set to the transaction time.
func Patch[T any](tx *Tx, table domain.Table[T], id string, mutate func(*T)) (T, error) {
	if table.AppendOnly() {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrAppendOnly, table.Name())
	}
	rec, ok := table.Find(&tx.db, id)
	if !ok {
		return rec, ErrNotFound{Table: table.Name(), ID: id}
	}
	before := *table.Meta(&rec)
	if mutate != nil {
		mutate(&rec)
	}
	m := table.Meta(&rec)
	m.ID = before.ID
	m.CreatedAt = before.CreatedAt
	m.UpdatedAt = tx.now
	table.Replace(&tx.db, rec)
	tx.changed = true
	return rec, nil
}

// Remove deletes id from the named table. Deleting a missing id is not an
// error and leaves the document untouched.
func Remove(tx *Tx, name domain.TableName, id string) (bool, error) {
	removed, err := domain.RemoveRecord(&tx.db, name, id)
	if err != nil {
		return false, err
	}
	if removed {
		tx.changed = true
	}
	return removed, nil
}

// GetAll returns every record of table in stored order.
func GetAll[T any](ctx context.Context, s *Store, table domain.Table[T]) []T {
	db := s.LoadDatabase(ctx)
	return table.Rows(&db)
}

// GetByID returns the record with id.
func GetByID[T any](ctx context.Context, s *Store, table domain.Table[T], id string) (T, bool) {
	db := s.LoadDatabase(ctx)
	return table.Find(&db, id)
}

// Create inserts rec and persists the document.
func Create[T any](ctx context.Context, s *Store, table domain.Table[T], rec T) (T, error) {
	var out T
	err := s.RunInTransaction(ctx, "create_"+string(table.Name()), func(tx *Tx) error {
		var err error
		out, err = Insert(tx, table, rec)
		return err
	})
	return out, err
}

// Update merges mutate into the record with id and persists the document.
// It reports false, leaving storage untouched, when no such record exists.
func Update[T any](ctx context.Context, s *Store, table domain.Table[T], id string, mutate func(*T)) (T, bool) {
	var out T
	err := s.RunInTransaction(ctx, "update_"+string(table.Name()), func(tx *Tx) error {
		var err error
		out, err = Patch(tx, table, id, mutate)
		return err
	})
	return out, err == nil
}

// DeleteRecord removes id from the named table and reports whether a record
// was removed. Unknown table names remove nothing.
func (s *Store) DeleteRecord(ctx context.Context, name domain.TableName, id string) bool {
	var removed bool
	err := s.RunInTransaction(ctx, "delete_"+string(name), func(tx *Tx) error {
		var err error
		removed, err = Remove(tx, name, id)
		return err
	})
	if err != nil {
		s.logger.Warn("delete record failed", "table", string(name), "id", id, "error", err)
	}
	return removed
}
