package mongo

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	// Use a separate context for the ping, as the initial connection might have succeeded
	// but the server might be unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection used by the repositories.
// Call this once during application startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure(ctx, db.Collection(userCollectionName), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	ensure(ctx, db.Collection(routineCollectionName), []mongo.IndexModel{
		// owner-scoped lookups always filter on both keys
		{Keys: bson.D{{Key: "ownerUserId", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "programId", Value: 1}, {Key: "isTemplate", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	ensure(ctx, db.Collection(trainingProgramCollectionName), []mongo.IndexModel{
		{Keys: bson.D{{Key: "professorId", Value: 1}}},
	})
	ensure(ctx, db.Collection(assignmentCollectionName), []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "programId", Value: 1}}},
	})
}

func ensure(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) {
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

// newID returns an ObjectID hex string. Sorting by it follows insertion order,
// which is what listings rely on.
func newID() string {
	return primitive.NewObjectID().Hex()
}
