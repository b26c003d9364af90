package sqlstore

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoutineRepository implements repository.RoutineRepository on top of gorm.
type RoutineRepository struct {
	database *gorm.DB
}

func NewRoutineRepository(database *gorm.DB) *RoutineRepository {
	return &RoutineRepository{database: database}
}

var _ repository.RoutineRepository = (*RoutineRepository)(nil)

func (repo *RoutineRepository) Create(ctx context.Context, routine *domain.Routine) error {
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	row := toRoutineRow(routine)
	if err := repo.database.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	routine.CreatedAt = row.CreatedAt
	routine.UpdatedAt = row.UpdatedAt
	return nil
}

func (repo *RoutineRepository) CreateMany(ctx context.Context, routines []domain.Routine) error {
	if len(routines) == 0 {
		return nil
	}
	rows := make([]routineRow, len(routines))
	for i := range routines {
		if routines[i].ID == "" {
			routines[i].ID = uuid.NewString()
		}
		rows[i] = toRoutineRow(&routines[i])
	}

	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i := range rows {
		routines[i].CreatedAt = rows[i].CreatedAt
		routines[i].UpdatedAt = rows[i].UpdatedAt
	}
	return nil
}

func (repo *RoutineRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Routine, error) {
	return repo.list(ctx, repo.database.WithContext(ctx).Where("owner_user_id = ?", ownerUserID))
}

func (repo *RoutineRepository) ListTemplatesByProgram(ctx context.Context, programID string) ([]domain.Routine, error) {
	return repo.list(ctx, repo.database.WithContext(ctx).Where("program_id = ? AND is_template = ?", programID, true))
}

func (repo *RoutineRepository) list(_ context.Context, query *gorm.DB) ([]domain.Routine, error) {
	rows := make([]routineRow, 0)
	if err := query.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	routines := make([]domain.Routine, len(rows))
	for i, row := range rows {
		routines[i] = row.toDomain()
	}
	return routines, nil
}

func (repo *RoutineRepository) GetByIDAndOwner(ctx context.Context, id, ownerUserID string) (*domain.Routine, error) {
	row, err := repo.findOwned(repo.database.WithContext(ctx), id, ownerUserID)
	if err != nil {
		return nil, err
	}
	routine := row.toDomain()
	return &routine, nil
}

func (repo *RoutineRepository) findOwned(tx *gorm.DB, id, ownerUserID string) (*routineRow, error) {
	var row routineRow
	if err := tx.Where("id = ? AND owner_user_id = ?", id, ownerUserID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Update overwrites the stored routine matching both routine.ID and routine.OwnerUserID.
func (repo *RoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.findOwned(tx, routine.ID, routine.OwnerUserID)
		if err != nil {
			return err
		}
		row := toRoutineRow(routine)
		row.Seq = existing.Seq
		row.CreatedAt = existing.CreatedAt
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		routine.CreatedAt = row.CreatedAt
		routine.UpdatedAt = row.UpdatedAt
		return nil
	})
}

func (repo *RoutineRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerUserID string) error {
	result := repo.database.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, ownerUserID).
		Delete(&routineRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
