package db

import (
	"context"
	"fmt"

	"MediCheck/models"

	coredb "github.com/KanapuramVaishnavi/Core/config/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MedicationStore is the append-only medications collection. It has no
// update or delete path.
type MedicationStore struct {
	coll *mongo.Collection
}

func NewMedicationStore(coll *mongo.Collection) *MedicationStore {
	return &MedicationStore{coll: coll}
}

// EnsureIndexes creates the timing index used by FindByTiming.
func (s *MedicationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timing", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("timing_createdAt"),
	})
	if err != nil {
		return fmt.Errorf("create timing index: %w", err)
	}
	return nil
}

// InsertMany appends all records in one round trip and returns how many were stored.
func (s *MedicationStore) InsertMany(ctx context.Context, records []models.MedicationRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, r)
	}
	res, err := coredb.CreateMany(ctx, s.coll, docs)
	if err != nil {
		return 0, fmt.Errorf("insert medications: %w", err)
	}
	return len(res.InsertedIDs), nil
}

/*
* Match records whose timing array contains the slot
* Sort by createdAt then _id so groups keep insertion order
* An empty result is not an error
 */
func (s *MedicationStore) FindByTiming(ctx context.Context, slot string) ([]models.MedicationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"timing": slot}, opts)
	if err != nil {
		return nil, fmt.Errorf("find medications for %s: %w", slot, err)
	}
	defer cursor.Close(ctx)

	records := []models.MedicationRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode medications for %s: %w", slot, err)
	}
	return records, nil
}

func (s *MedicationStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// Collection exposes the underlying collection for data migrations.
func (s *MedicationStore) Collection() *mongo.Collection {
	return s.coll
}
