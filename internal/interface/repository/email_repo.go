// internal/interface/repository/email_repo.go
package repository

import (
	"context"
	"fmt"
	"time"

	"logbook-creator/internal/domain/entity"
	"logbook-creator/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEmailLogRepository implements the EmailLogRepository interface
type MongoEmailLogRepository struct {
	collection *mongo.Collection
}

// NewMongoEmailLogRepository creates a new MongoDB email log repository
func NewMongoEmailLogRepository(ctx context.Context, db *mongo.Database) (repository.EmailLogRepository, error) {
	collection := db.Collection("emailLogs")

	emailIDIndex := mongo.IndexModel{
		Keys:    bson.M{"emailId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Index on processStatus for finding emails by status
	processStatusIndex := mongo.IndexModel{
		Keys: bson.M{"processStatus": 1},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{emailIDIndex, processStatusIndex}); err != nil {
		return nil, fmt.Errorf("failed to create email log indexes: %w", err)
	}

	return &MongoEmailLogRepository{
		collection: collection,
	}, nil
}

// MarkAsProcessed records the outcome for an email, replacing any earlier entry
func (r *MongoEmailLogRepository) MarkAsProcessed(ctx context.Context, email *entity.Email, status, errorDetail string, extractedData map[string]interface{}) error {
	set := bson.M{
		"subject":       email.Subject,
		"receivedAt":    email.ReceivedAt,
		"processedAt":   time.Now(),
		"processStatus": status,
	}

	if len(extractedData) > 0 {
		set["extractedData"] = extractedData
	}

	if errorDetail != "" {
		set["errorDetail"] = errorDetail
	}

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"emailId": email.EmailID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to mark as processed: %w", err)
	}

	return nil
}

// FindByEmailIDs finds multiple log entries by Gmail message IDs (batch operation)
func (r *MongoEmailLogRepository) FindByEmailIDs(ctx context.Context, emailIDs []string) (map[string]*entity.EmailLog, error) {
	result := make(map[string]*entity.EmailLog)
	if len(emailIDs) == 0 {
		return result, nil
	}

	filter := bson.M{"emailId": bson.M{"$in": emailIDs}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var log entity.EmailLog
		if err := cursor.Decode(&log); err != nil {
			continue
		}
		result[log.EmailID] = &log
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
