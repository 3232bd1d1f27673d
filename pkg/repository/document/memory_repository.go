package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository evaluates queries against documents held in process.
// Documents keep insertion order, which stands in for MongoDB natural order.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs []Document
	err  error
}

// NewMemoryRepository creates a repository seeded with docs.
func NewMemoryRepository(docs ...Document) *MemoryRepository {
	r := &MemoryRepository{}
	r.Insert(docs...)
	return r
}

// Insert appends docs, assigning an ObjectID to any document without _id.
func (r *MemoryRepository) Insert(docs ...Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range docs {
		cp := make(Document, len(d)+1)
		for k, v := range d {
			cp[k] = v
		}
		if _, ok := cp["_id"]; !ok {
			cp["_id"] = primitive.NewObjectID()
		}
		r.docs = append(r.docs, cp)
	}
}

// SetFailure makes every subsequent read return err. A nil err restores normal behavior.
func (r *MemoryRepository) SetFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// FindByID returns the document whose _id equals id, or ErrNotFound.
func (r *MemoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, fmt.Errorf("find by id: %w", r.err)
	}
	for _, d := range r.docs {
		if oid, ok := d["_id"].(primitive.ObjectID); ok && oid == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

// FindAll returns the documents matching every condition of q, sorted
// stably when q has a sort. The result is never nil.
func (r *MemoryRepository) FindAll(ctx context.Context, q Query) ([]Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, fmt.Errorf("find: %w", r.err)
	}

	out := make([]Document, 0, len(r.docs))
	for _, d := range r.docs {
		if matchesAll(d, q.Conditions) {
			out = append(out, d)
		}
	}

	if q.Sort != nil && q.Sort.Field != "" {
		field, desc := q.Sort.Field, q.Sort.Order == SortDesc
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i][field], out[j][field]
			if desc {
				return CompareValues(b, a) < 0
			}
			return CompareValues(a, b) < 0
		})
	}
	return out, nil
}

func matchesAll(d Document, conditions []Condition) bool {
	for _, c := range conditions {
		if !matches(d[c.Field], c) {
			return false
		}
	}
	return true
}

// matches mirrors MongoDB semantics for scalar and array fields: an array
// matches when any element matches.
func matches(v interface{}, c Condition) bool {
	switch t := v.(type) {
	case primitive.A:
		return anyMatches([]interface{}(t), c)
	case []interface{}:
		return anyMatches(t, c)
	case string:
		if c.Operator == OpContains {
			return strings.Contains(strings.ToLower(t), strings.ToLower(c.Value))
		}
		return t == c.Value
	default:
		return false
	}
}

func anyMatches(values []interface{}, c Condition) bool {
	for _, v := range values {
		if matches(v, c) {
			return true
		}
	}
	return false
}

// CompareValues orders two field values the way MongoDB orders BSON types:
// missing and null first, then numbers, strings, documents, arrays,
// ObjectIDs, booleans and dates. Values of the same class compare naturally.
func CompareValues(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}

	switch ra {
	case rankNumber:
		x, y := toFloat(a), toFloat(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankObjectID:
		x, y := a.(primitive.ObjectID), b.(primitive.ObjectID)
		return strings.Compare(x.Hex(), y.Hex())
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case rankDate:
		x, y := toTime(a), toTime(b)
		return x.Compare(y)
	}
	return 0
}

const (
	rankNull = iota
	rankNumber
	rankString
	rankDocument
	rankArray
	rankObjectID
	rankBool
	rankDate
)

func typeRank(v interface{}) int {
	switch v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return rankNull
	case int, int32, int64, float32, float64, primitive.Decimal128:
		return rankNumber
	case string:
		return rankString
	case map[string]interface{}, Document, primitive.M, primitive.D:
		return rankDocument
	case []interface{}, primitive.A:
		return rankArray
	case primitive.ObjectID:
		return rankObjectID
	case bool:
		return rankBool
	case time.Time, primitive.DateTime:
		return rankDate
	default:
		return rankDocument
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case primitive.Decimal128:
		f, err := decimalToFloat(n)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func decimalToFloat(d primitive.Decimal128) (float64, error) {
	var f float64
	_, err := fmt.Sscan(d.String(), &f)
	return f, err
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	}
	return time.Time{}
}
