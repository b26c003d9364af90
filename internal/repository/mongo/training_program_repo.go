// internal/repository/mongo/training_program_repo.go
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

const (
	trainingProgramCollectionName = "training_programs"
	assignmentCollectionName      = "program_assignments"
)

// mongoTrainingProgramRepository implements repository.TrainingProgramRepository
type mongoTrainingProgramRepository struct {
	collection  *mongo.Collection
	assignments *mongo.Collection
}

// NewMongoTrainingProgramRepository creates a new TrainingProgram repository.
func NewMongoTrainingProgramRepository(db *mongo.Database) repository.TrainingProgramRepository {
	return &mongoTrainingProgramRepository{
		collection:  db.Collection(trainingProgramCollectionName),
		assignments: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new training program.
func (r *mongoTrainingProgramRepository) Create(ctx context.Context, program *domain.TrainingProgram) error {
	if program.ProfessorID == "" || program.Name == "" {
		return errors.New("program requires professorId and name")
	}
	if program.ID == "" {
		program.ID = newID()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, program)
	return err
}

// GetByID retrieves a single training program by its ID.
func (r *mongoTrainingProgramRepository) GetByID(ctx context.Context, id string) (*domain.TrainingProgram, error) {
	var program domain.TrainingProgram
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// ListByProfessor retrieves the programs authored by a professor, oldest first.
func (r *mongoTrainingProgramRepository) ListByProfessor(ctx context.Context, professorID string) ([]domain.TrainingProgram, error) {
	return r.find(ctx, bson.M{"professorId": professorID})
}

// CreateAssignment inserts the join document without checking program or user existence.
func (r *mongoTrainingProgramRepository) CreateAssignment(ctx context.Context, assignment *domain.ProgramAssignment) error {
	if assignment.ID == "" {
		assignment.ID = newID()
	}
	assignment.CreatedAt = time.Now().UTC()
	_, err := r.assignments.InsertOne(ctx, assignment)
	return err
}

// ListAssignedToUser retrieves every program the user has been assigned.
func (r *mongoTrainingProgramRepository) ListAssignedToUser(ctx context.Context, userID string) ([]domain.TrainingProgram, error) {
	programIDs, err := r.assignments.Distinct(ctx, "programId", bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	if len(programIDs) == 0 {
		return []domain.TrainingProgram{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": programIDs}})
}

func (r *mongoTrainingProgramRepository) find(ctx context.Context, filter bson.M) ([]domain.TrainingProgram, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	programs := []domain.TrainingProgram{}
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}
