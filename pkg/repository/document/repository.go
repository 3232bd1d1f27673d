// Package document defines a storage-neutral read model for document
// collections and its MongoDB and in-memory implementations.
package document

import (
	"context"
	"errors"
)

// ErrNotFound is returned by FindByID when no document has the identifier.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless record passed through to callers unchanged.
type Document map[string]interface{}

// Operator is the comparison a Condition applies to a field.
type Operator string

const (
	// OpEquals matches fields equal to the value.
	OpEquals Operator = "eq"
	// OpContains matches string fields containing the value, ignoring case.
	// The value is matched literally.
	OpContains Operator = "contains"
)

// Condition restricts a query to documents whose Field satisfies Operator against Value.
type Condition struct {
	Field    string
	Operator Operator
	Value    string
}

// Eq builds an equality condition.
func Eq(field, value string) Condition {
	return Condition{Field: field, Operator: OpEquals, Value: value}
}

// Contains builds a case-insensitive substring condition.
func Contains(field, value string) Condition {
	return Condition{Field: field, Operator: OpContains, Value: value}
}

// Sort specifies field and direction for sorting results.
type Sort struct {
	Field string
	Order SortOrder
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query selects documents matching every condition, optionally sorted.
// An empty query matches the whole collection in natural order.
type Query struct {
	Conditions []Condition
	Sort       *Sort
}

// Where appends a condition and returns the query.
func (q Query) Where(c Condition) Query {
	q.Conditions = append(append([]Condition{}, q.Conditions...), c)
	return q
}

// OrderBy sets an ascending sort on field.
func (q Query) OrderBy(field string) Query {
	q.Sort = &Sort{Field: field, Order: SortAsc}
	return q
}

// Reader provides read operations for document entities.
type Reader[T any, ID comparable] interface {
	FindByID(ctx context.Context, id ID) (T, error)
	FindAll(ctx context.Context, q Query) ([]T, error)
}
