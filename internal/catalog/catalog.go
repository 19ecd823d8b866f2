// Package catalog provides access to the remote product datastore.
//
// The bot core talks to the catalog only through the Gateway interface. Two
// implementations exist: a Supabase PostgREST client for production and an
// in-memory catalog for local runs and tests. Every mutating operation
// appends one audit record as part of the call; audit failures are logged
// internally and never surface to the caller.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairyhunter13/warung-price-bot/internal/model"
)

// ErrNotFound is returned when a product id or name has no match.
var ErrNotFound = errors.New("product not found")

// TransportError wraps a storage or network failure, distinguishable from
// ErrNotFound via errors.As.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Audit action kinds recorded on mutations.
const (
	AuditCreate     = "CREATE"
	AuditUpdate     = "UPDATE"
	AuditUpdateByID = "UPDATE_BY_ID"
	AuditDelete     = "DELETE"
	AuditDeleteByID = "DELETE_BY_ID"
)

// Gateway is the set of catalog operations consumed by the action executor.
type Gateway interface {
	// FindByName returns the first product whose name matches
	// case-insensitively, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.Product, error)
	// Search returns all products whose names contain the query.
	Search(ctx context.Context, query string) ([]model.Product, error)
	// UpsertByName updates the matching product's price and unit, creating
	// the product when no match exists.
	UpsertByName(ctx context.Context, name string, price int64, unit, requestedBy string) (*model.Product, error)
	// UpdateByID sets price and unit on an existing product, or ErrNotFound.
	UpdateByID(ctx context.Context, id, price int64, unit, requestedBy string) (*model.Product, error)
	// DeleteByID removes a product by id, or ErrNotFound.
	DeleteByID(ctx context.Context, id int64, requestedBy string) error
	// DeleteByName removes the first product matching the name, or ErrNotFound.
	DeleteByName(ctx context.Context, name, requestedBy string) error
}
