package core

import (
	"errors"
	"fmt"

	"partnerhub/pkg/domain"
)

// ErrNotFound reports a missing record.
type ErrNotFound struct {
	Table domain.TableName
	ID    string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Table, e.ID)
}

// ErrDuplicateID is returned when a create supplies an id already present in
// the collection.
var ErrDuplicateID = errors.New("record id already exists")

// ErrAppendOnly is returned when an update targets a collection whose
// records never change once written.
var ErrAppendOnly = errors.New("collection is append-only")

// ErrActiveDocument is returned when dropping the document the store is
// bound to.
var ErrActiveDocument = errors.New("document is in use by this store")

// errDegraded marks reads served from the default document.
var errDegraded = errors.New("storage degraded")
