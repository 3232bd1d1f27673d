// Package catalog serves the read-only products and services endpoints.
package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/catalog-api/pkg/repository/document"
)

// Store is the collection a handler reads from. document.MongoRepository
// serves it in production and document.MemoryRepository in tests.
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (document.Document, error)
	FindAll(ctx context.Context, q document.Query) ([]document.Document, error)
}

var (
	_ Store = (*document.MongoRepository)(nil)
	_ Store = (*document.MemoryRepository)(nil)
)
