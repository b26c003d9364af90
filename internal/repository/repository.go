package repository

import (
	"alcyxob/routine-tracker/internal/domain" // Import our defined domain models
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error // Returns ErrDuplicate when the email is taken
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// RoutineRepository defines the interface for routine data.
// Every per-record method is owner-scoped: it matches on both id and ownerUserID,
// so a routine of another user is indistinguishable from a missing one (ErrNotFound).
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) error
	// CreateMany inserts all routines atomically: either every row is stored or none is.
	CreateMany(ctx context.Context, routines []domain.Routine) error
	ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Routine, error)
	GetByIDAndOwner(ctx context.Context, id, ownerUserID string) (*domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerUserID string) error
	// ListTemplatesByProgram returns the template routines of a program in insertion order.
	ListTemplatesByProgram(ctx context.Context, programID string) ([]domain.Routine, error)
}

// TrainingProgramRepository defines the interface for training programs and their assignments.
type TrainingProgramRepository interface {
	Create(ctx context.Context, program *domain.TrainingProgram) error
	GetByID(ctx context.Context, id string) (*domain.TrainingProgram, error)
	ListByProfessor(ctx context.Context, professorID string) ([]domain.TrainingProgram, error)
	CreateAssignment(ctx context.Context, assignment *domain.ProgramAssignment) error
	ListAssignedToUser(ctx context.Context, userID string) ([]domain.TrainingProgram, error)
}
