package document

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/observability/tracing"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExecutor is the subset of the MongoDB adapter the repository needs.
type MongoExecutor interface {
	DatabaseName() string
	FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error
	Find(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) ([]bson.M, error)
}

// QueryRecorder receives one observation per store query.
type QueryRecorder interface {
	RecordStoreQuery(collection, op, outcome string, duration time.Duration)
}

// MongoRepository reads one MongoDB collection.
type MongoRepository struct {
	executor   MongoExecutor
	collection string
	recorder   QueryRecorder
}

// MongoOption configures a MongoRepository.
type MongoOption func(*MongoRepository)

// WithQueryRecorder records query counts and durations on r.
func WithQueryRecorder(r QueryRecorder) MongoOption {
	return func(repo *MongoRepository) {
		repo.recorder = r
	}
}

// NewMongoRepository creates a repository over collection.
func NewMongoRepository(executor MongoExecutor, collection string, opts ...MongoOption) (*MongoRepository, error) {
	if executor == nil {
		return nil, errors.New("mongodb executor is required")
	}
	if collection == "" {
		return nil, errors.New("collection name is required")
	}
	repo := &MongoRepository{executor: executor, collection: collection}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

// Collection returns the collection name.
func (r *MongoRepository) Collection() string {
	return r.collection
}

// FindByID returns the document whose _id equals id, or ErrNotFound.
func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Document, error) {
	ctx, finish := r.observe(ctx, "find_one")

	out := bson.M{}
	err := r.executor.FindOne(ctx, r.collection, bson.D{{Key: "_id", Value: id}}, &out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		finish(metrics.OutcomeNotFound, nil)
		return nil, ErrNotFound
	}
	if err != nil {
		finish(metrics.OutcomeError, err)
		return nil, fmt.Errorf("find %s by id: %w", r.collection, err)
	}

	finish(metrics.OutcomeSuccess, nil)
	return Document(out), nil
}

// FindAll returns every document matching q. The result is never nil.
func (r *MongoRepository) FindAll(ctx context.Context, q Query) ([]Document, error) {
	ctx, finish := r.observe(ctx, "find")

	raw, err := r.executor.Find(ctx, r.collection, MongoFilter(q), MongoFindOptions(q))
	if err != nil {
		finish(metrics.OutcomeError, err)
		return nil, fmt.Errorf("find %s: %w", r.collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, Document(m))
	}
	finish(metrics.OutcomeSuccess, nil)
	return docs, nil
}

func (r *MongoRepository) observe(ctx context.Context, op string) (context.Context, func(outcome string, err error)) {
	start := time.Now()
	ctx, span := tracing.StartStoreSpan(ctx, tracing.StoreSpan{
		System:     "mongodb",
		Database:   r.executor.DatabaseName(),
		Collection: r.collection,
		Operation:  op,
	})

	return ctx, func(outcome string, err error) {
		defer span.End()
		if err != nil {
			tracing.RecordError(span, err)
		} else {
			tracing.RecordSuccess(span)
		}
		if r.recorder != nil {
			r.recorder.RecordStoreQuery(r.collection, op, outcome, time.Since(start))
		}
	}
}

// MongoFilter translates q into a filter document. Contains values are
// escaped with regexp.QuoteMeta so caller input is matched literally.
// Conditions on distinct fields form an implicit AND; repeated fields are
// combined with $and.
func MongoFilter(q Query) bson.D {
	clauses := make(bson.D, 0, len(q.Conditions))
	seen := make(map[string]struct{}, len(q.Conditions))
	repeated := false
	for _, c := range q.Conditions {
		if _, ok := seen[c.Field]; ok {
			repeated = true
		}
		seen[c.Field] = struct{}{}
		clauses = append(clauses, bson.E{Key: c.Field, Value: mongoValue(c)})
	}
	if !repeated {
		return clauses
	}

	and := make(bson.A, 0, len(clauses))
	for _, e := range clauses {
		and = append(and, bson.D{e})
	}
	return bson.D{{Key: "$and", Value: and}}
}

func mongoValue(c Condition) interface{} {
	if c.Operator == OpContains {
		return primitive.Regex{Pattern: regexp.QuoteMeta(c.Value), Options: "i"}
	}
	return c.Value
}

// MongoFindOptions translates the sort of q. Without a sort the natural order is kept.
func MongoFindOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if q.Sort == nil || q.Sort.Field == "" {
		return opts
	}
	direction := 1
	if q.Sort.Order == SortDesc {
		direction = -1
	}
	return opts.SetSort(bson.D{{Key: q.Sort.Field, Value: direction}})
}
