package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProperty_ClosedAdapterRejectsOperations(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 30
	properties := gopter.NewProperties(params)

	properties.Property("closed adapter fails every operation with ErrClosed", prop.ForAll(
		func(collection string) bool {
			a := closedAdapter(nil)
			_, findErr := a.Find(context.Background(), collection, bson.D{})
			oneErr := a.FindOne(context.Background(), collection, bson.D{}, &bson.M{})
			return errors.Is(a.Ping(context.Background()), ErrClosed) &&
				errors.Is(findErr, ErrClosed) &&
				errors.Is(oneErr, ErrClosed)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
