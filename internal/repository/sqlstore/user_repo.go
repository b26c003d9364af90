package sqlstore

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements repository.UserRepository on top of gorm.
type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (repo *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := toUserRow(user)
	if err := repo.database.WithContext(ctx).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return repo.first(ctx, "email = ?", domain.NormalizeEmail(email))
}

func (repo *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return repo.first(ctx, "id = ?", id)
}

func (repo *UserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	if err := repo.database.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	user := row.toDomain()
	return &user, nil
}

func (repo *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	updates := map[string]any{}
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Email != nil {
		updates["email"] = domain.NormalizeEmail(*patch.Email)
	}
	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}

	if len(updates) > 0 {
		result := repo.database.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			if isDuplicate(result.Error) {
				return nil, repository.ErrDuplicate
			}
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, repository.ErrNotFound
		}
	}
	return repo.GetByID(ctx, id)
}

func (repo *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows := make([]userRow, 0)
	if err := repo.database.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = row.toDomain()
	}
	return users, nil
}
