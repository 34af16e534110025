package controllers

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB collections
var (
	RoundsCollection  *mongo.Collection
	HistoryCollection *mongo.Collection
)

// SetRoundsCollection initializes the round archive collection with a unique
// index on the round id so a settlement replace can never duplicate a round.
func SetRoundsCollection(db *mongo.Database) {
	RoundsCollection = db.Collection("rounds")

	indexModel := mongo.IndexModel{
		Keys:    bson.M{"round.id": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := RoundsCollection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		log.Fatalf("Failed to create unique index on round id: %v", err)
	}
}

func SetHistoryCollection(db *mongo.Database) {
	HistoryCollection = db.Collection("history")
}
