package sqlstore

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingProgramRepository implements repository.TrainingProgramRepository on top of gorm.
type TrainingProgramRepository struct {
	database *gorm.DB
}

func NewTrainingProgramRepository(database *gorm.DB) *TrainingProgramRepository {
	return &TrainingProgramRepository{database: database}
}

var _ repository.TrainingProgramRepository = (*TrainingProgramRepository)(nil)

func (repo *TrainingProgramRepository) Create(ctx context.Context, program *domain.TrainingProgram) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	row := toProgramRow(program)
	if err := repo.database.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	program.CreatedAt = row.CreatedAt
	program.UpdatedAt = row.UpdatedAt
	return nil
}

func (repo *TrainingProgramRepository) GetByID(ctx context.Context, id string) (*domain.TrainingProgram, error) {
	var row programRow
	if err := repo.database.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	program := row.toDomain()
	return &program, nil
}

func (repo *TrainingProgramRepository) ListByProfessor(ctx context.Context, professorID string) ([]domain.TrainingProgram, error) {
	return repo.list(repo.database.WithContext(ctx).Where("professor_id = ?", professorID))
}

// CreateAssignment stores the join row as given; it does not check that the
// program or the user exist.
func (repo *TrainingProgramRepository) CreateAssignment(ctx context.Context, assignment *domain.ProgramAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	row := assignmentRow{
		ID:        assignment.ID,
		ProgramID: assignment.ProgramID,
		UserID:    assignment.UserID,
	}
	if err := repo.database.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	assignment.CreatedAt = row.CreatedAt
	return nil
}

func (repo *TrainingProgramRepository) ListAssignedToUser(ctx context.Context, userID string) ([]domain.TrainingProgram, error) {
	db := repo.database.WithContext(ctx)
	assigned := db.Model(&assignmentRow{}).Select("program_id").Where("user_id = ?", userID)
	return repo.list(db.Where("id IN (?)", assigned))
}

func (repo *TrainingProgramRepository) list(query *gorm.DB) ([]domain.TrainingProgram, error) {
	rows := make([]programRow, 0)
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	programs := make([]domain.TrainingProgram, len(rows))
	for i, row := range rows {
		programs[i] = row.toDomain()
	}
	return programs, nil
}
