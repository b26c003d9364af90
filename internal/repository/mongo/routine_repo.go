// internal/repository/mongo/routine_repo.go
package mongo

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository.
// Sets are stored as an embedded array, so no text encoding is needed here.
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

func prepareInsert(routine *domain.Routine, now time.Time) {
	if routine.ID == "" {
		routine.ID = newID()
	}
	if routine.VideoURLs == nil {
		routine.VideoURLs = []string{}
	}
	routine.CreatedAt = now
	routine.UpdatedAt = now
}

// Create inserts a new routine.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) error {
	if routine.OwnerUserID == "" {
		return errors.New("routine requires ownerUserId")
	}
	prepareInsert(routine, time.Now().UTC())
	_, err := r.collection.InsertOne(ctx, routine)
	return err
}

// CreateMany inserts all routines inside one transaction.
// Transactions require the server to run as a replica set.
func (r *mongoRoutineRepository) CreateMany(ctx context.Context, routines []domain.Routine) error {
	if len(routines) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(routines))
	for i := range routines {
		prepareInsert(&routines[i], now)
		docs[i] = routines[i]
	}

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return r.collection.InsertMany(sessCtx, docs)
	})
	return err
}

// ListByOwner retrieves all routines of one user in insertion order.
func (r *mongoRoutineRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Routine, error) {
	return r.find(ctx, bson.M{"ownerUserId": ownerUserID})
}

// ListTemplatesByProgram retrieves the template routines of a program.
func (r *mongoRoutineRepository) ListTemplatesByProgram(ctx context.Context, programID string) ([]domain.Routine, error) {
	return r.find(ctx, bson.M{"programId": programID, "isTemplate": true})
}

func (r *mongoRoutineRepository) find(ctx context.Context, filter bson.M) ([]domain.Routine, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	routines := []domain.Routine{}
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// GetByIDAndOwner retrieves a routine only if it belongs to ownerUserID.
func (r *mongoRoutineRepository) GetByIDAndOwner(ctx context.Context, id, ownerUserID string) (*domain.Routine, error) {
	var routine domain.Routine
	filter := bson.M{"_id": id, "ownerUserId": ownerUserID}
	if err := r.collection.FindOne(ctx, filter).Decode(&routine); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// Update overwrites the mutable fields of a routine owned by routine.OwnerUserID.
func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	// Ownership, lineage and template flags are not changed by an update.
	filter := bson.M{"_id": routine.ID, "ownerUserId": routine.OwnerUserID}
	routine.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"category":     routine.Category,
			"name":         routine.Name,
			"description":  routine.Description,
			"date":         routine.Date,
			"sets":         routine.Sets,
			"observations": routine.Observations,
			"videoUrls":    routine.VideoURLs,
			"updatedAt":    routine.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a routine only if it belongs to ownerUserID.
func (r *mongoRoutineRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerUserID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerUserId": ownerUserID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Routine not found OR not owned by this user.
		return repository.ErrNotFound
	}
	return nil
}
