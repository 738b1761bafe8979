package repository

import (
	"context"
	"fmt"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightRecordRepository implements FlightRecordRepository
type MongoFlightRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightRecordRepository creates a new flight record repository
func NewMongoFlightRecordRepository(ctx context.Context, db *mongo.Database, collectionName string) (repository.FlightRecordRepository, error) {
	collection := db.Collection(collectionName)

	// Unique index on the leg identity so a re-imported report updates instead of duplicating
	flightKeyIndex := mongo.IndexModel{
		Keys:    bson.M{"flight_key": 1},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}

	// Index on datetime for ordered reads
	datetimeIndex := mongo.IndexModel{
		Keys: bson.M{"datetime": 1},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{flightKeyIndex, datetimeIndex}); err != nil {
		return nil, fmt.Errorf("failed to create flight indexes: %w", err)
	}

	return &MongoFlightRecordRepository{
		collection: collection,
	}, nil
}

// SaveAll upserts every record keyed by its flight key
func (r *MongoFlightRecordRepository) SaveAll(ctx context.Context, records []entity.FlightRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"flight_key": record.FlightKey()}).
			SetUpdate(bson.M{"$set": flightDocument(record)}).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(true)
	if _, err := r.collection.BulkWrite(ctx, models, opts); err != nil {
		return fmt.Errorf("failed to save flights: %w", err)
	}

	return nil
}

// FindAll returns every stored flight ordered by departure instant
func (r *MongoFlightRecordRepository) FindAll(ctx context.Context) ([]entity.FlightRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "datetime", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find flights: %w", err)
	}
	defer cursor.Close(ctx)

	records := []entity.FlightRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	return records, nil
}

// flightDocument builds the stored document from the record's key/value form
func flightDocument(record entity.FlightRecord) bson.M {
	doc := bson.M(record.ToMap())
	doc["flight_key"] = record.FlightKey()
	return doc
}
