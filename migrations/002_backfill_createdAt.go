package migrations

import (
	"context"
	"fmt"

	coredb "github.com/KanapuramVaishnavi/Core/config/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackfillCreatedAt sets createdAt from the ObjectID timestamp on records
// that were inserted without one. Existing values are never touched.
func BackfillCreatedAt(ctx context.Context, coll *mongo.Collection) (int64, error) {
	filter := bson.M{"createdAt": bson.M{"$exists": false}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "createdAt", Value: bson.D{{Key: "$toDate", Value: "$_id"}}}}}},
	}
	res, err := coredb.UpdateMany(ctx, coll, filter, update, nil)
	if err != nil {
		return 0, fmt.Errorf("backfill createdAt: %w", err)
	}
	return res.ModifiedCount, nil
}
