package migrations

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type step struct {
	name string
	run  func(ctx context.Context, coll *mongo.Collection) (int64, error)
}

var steps = []step{
	{name: "normalize_timing", run: NormalizeTimingField},
	{name: "backfill_createdAt", run: BackfillCreatedAt},
}

// Run applies every migration in order and stops at the first failure.
func Run(ctx context.Context, coll *mongo.Collection, log logrus.FieldLogger) error {
	for _, s := range steps {
		modified, err := s.run(ctx, coll)
		if err != nil {
			log.WithError(err).WithField("migration", s.name).Error("Migration failed")
			return err
		}
		log.WithFields(logrus.Fields{"migration": s.name, "modified": modified}).Info("Migration applied")
	}
	return nil
}
