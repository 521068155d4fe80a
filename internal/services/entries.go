package services

import (
	"context"
	"log"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/database"
	"github.com/tsukuroi/kintsugi-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Module document collections.
const (
	CollectionAnxietyNotes   = "anxiety_notes"
	CollectionReflections    = "reflections"
	CollectionBreathSessions = "breath_sessions"
)

// EnsureEntryIndexes configures indexes for the module document collections.
// Called on startup from main after Mongo has connected.
func EnsureEntryIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("idx_user_created"),
	}

	for _, name := range []string{CollectionAnxietyNotes, CollectionReflections, CollectionBreathSessions} {
		if _, err := database.DB.Collection(name).Indexes().CreateOne(ctx, index); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnxietyNoteAsync persists an anxiety note to MongoDB in the
// background. Fire-and-forget: the crack already lives in the vessel
// snapshot, the note is the searchable payload.
func SaveAnxietyNoteAsync(note models.AnxietyNote) {
	go func(n models.AnxietyNote) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if n.ID.IsZero() {
			n.ID = primitive.NewObjectID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}
		if _, err := database.DB.Collection(CollectionAnxietyNotes).InsertOne(ctx, n); err != nil {
			log.Printf("[entries] save anxiety note for %s: %v", n.UserID, err)
		}
	}(note)
}

// SaveBreathSessionAsync persists a breathing session log in the background.
func SaveBreathSessionAsync(session models.BreathSession) {
	go func(s models.BreathSession) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		if _, err := database.DB.Collection(CollectionBreathSessions).InsertOne(ctx, s); err != nil {
			log.Printf("[entries] save breath session for %s: %v", s.UserID, err)
		}
	}(session)
}

// SaveReflection persists a gratitude reflection synchronously so the study
// page can list it right after submission.
func SaveReflection(ctx context.Context, r models.Reflection) (models.Reflection, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := database.DB.Collection(CollectionReflections).InsertOne(ctx, r)
	return r, err
}

// ListReflections returns a page of the user's reflections, newest first,
// plus the total count.
func ListReflections(ctx context.Context, userID string, limit, skip int) ([]models.Reflection, int64, error) {
	col := database.DB.Collection(CollectionReflections)
	filter := bson.M{"user_id": userID}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})
	findOptions.SetLimit(int64(limit))
	findOptions.SetSkip(int64(skip))

	cursor, err := col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reflections []models.Reflection
	if err = cursor.All(ctx, &reflections); err != nil {
		return nil, 0, err
	}
	return reflections, total, nil
}
