package migrations

import (
	"context"
	"fmt"

	coredb "github.com/KanapuramVaishnavi/Core/config/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NormalizeTimingField wraps legacy string timing values into a one element
// array so the timing index query matches them. Safe to run repeatedly.
func NormalizeTimingField(ctx context.Context, coll *mongo.Collection) (int64, error) {
	filter := bson.M{"timing": bson.M{"$type": "string"}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "timing", Value: bson.A{"$timing"}}}}},
	}
	res, err := coredb.UpdateMany(ctx, coll, filter, update, nil)
	if err != nil {
		return 0, fmt.Errorf("normalize timing: %w", err)
	}
	return res.ModifiedCount, nil
}
