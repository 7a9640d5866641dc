package database

import (
	"context"
	"fmt"
	"time"

	"wayfarer/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is the process-wide MongoDB client, set by InitDB.
var MongoClient *mongo.Client

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// InitDB initializes the MongoDB connection and returns the application database.
func InitDB(logger *zap.Logger) *mongo.Database {
	client, err := Connect(context.Background(), config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Fatal("database: init failed", zap.Error(err))
	}
	MongoClient = client
	logger.Info("Connected to MongoDB successfully!")
	return client.Database(config.AppConfig.DatabaseName)
}
