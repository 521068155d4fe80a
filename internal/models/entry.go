package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnxietyNote is the free-text payload behind an anxiety crack, stored in
// the garden module's collection.
type AnxietyNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UserID    string             `bson:"user_id" json:"user_id"`
	CrackID   string             `bson:"crack_id" json:"crack_id"`
	Text      string             `bson:"text" json:"text"`
	Locale    string             `bson:"locale,omitempty" json:"locale,omitempty"`
}

// Reflection is a gratitude reflection session from the study module.
type Reflection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UserID      string             `bson:"user_id" json:"user_id"`
	ActivityID  string             `bson:"activity_id" json:"activity_id"`
	Reflections []string           `bson:"reflections" json:"reflections"`
	Locale      string             `bson:"locale,omitempty" json:"locale,omitempty"`
}

// BreathSession is a completed breathing/meditation session from the
// tatami module.
type BreathSession struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UserID          string             `bson:"user_id" json:"user_id"`
	ActivityID      string             `bson:"activity_id" json:"activity_id"`
	DurationSeconds int                `bson:"duration_seconds" json:"duration_seconds"`
	Pattern         string             `bson:"pattern,omitempty" json:"pattern,omitempty"`
}
