package sqlstore

import (
	"alcyxob/routine-tracker/internal/domain"
	"time"
)

type userRow struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash *string
	Role         string `gorm:"not null;index"`
	FirstName    string
	LastName     string
	AvatarURL    *string
	FederatedID  *string `gorm:"index"`
	IsActive     bool    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

// routineRow keeps an integer surrogate key so listings can follow insertion
// order; the public identifier is the uuid in ID.
// Sets and VideoURLs are JSON text columns: they are encoded on every write and
// decoded on every read and never leave this package in encoded form.
type routineRow struct {
	Seq               uint   `gorm:"primaryKey;autoIncrement"`
	ID                string `gorm:"uniqueIndex;type:varchar(36);not null"`
	OwnerUserID       string `gorm:"index;type:varchar(36);not null"`
	Category          string `gorm:"not null"`
	Name              string `gorm:"not null"`
	Description       *string
	Date              string              `gorm:"type:varchar(10);not null"`
	Sets              []domain.RoutineSet `gorm:"serializer:json;not null"`
	Observations      *string
	IsTemplate        bool     `gorm:"not null"`
	OriginalRoutineID *string  `gorm:"type:varchar(36)"`
	ProgramID         *string  `gorm:"index;type:varchar(36)"`
	VideoURLs         []string `gorm:"serializer:json"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (routineRow) TableName() string { return "routines" }

type programRow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	ProfessorID string `gorm:"index;type:varchar(36);not null"`
	Name        string `gorm:"not null"`
	Description *string
	Weeks       *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (programRow) TableName() string { return "training_programs" }

type assignmentRow struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	ProgramID string `gorm:"index;type:varchar(36);not null"`
	UserID    string `gorm:"index;type:varchar(36);not null"`
	CreatedAt time.Time
}

func (assignmentRow) TableName() string { return "program_assignments" }

func toUserRow(u *domain.User) userRow {
	return userRow{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		AvatarURL:    u.AvatarURL,
		FederatedID:  u.FederatedID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (row userRow) toDomain() domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		AvatarURL:    row.AvatarURL,
		FederatedID:  row.FederatedID,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toRoutineRow(r *domain.Routine) routineRow {
	sets := r.Sets
	if sets == nil {
		sets = []domain.RoutineSet{}
	}
	videos := r.VideoURLs
	if videos == nil {
		videos = []string{}
	}
	return routineRow{
		ID:                r.ID,
		OwnerUserID:       r.OwnerUserID,
		Category:          r.Category,
		Name:              r.Name,
		Description:       r.Description,
		Date:              r.Date,
		Sets:              sets,
		Observations:      r.Observations,
		IsTemplate:        r.IsTemplate,
		OriginalRoutineID: r.OriginalRoutineID,
		ProgramID:         r.ProgramID,
		VideoURLs:         videos,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (row routineRow) toDomain() domain.Routine {
	videos := row.VideoURLs
	if videos == nil {
		videos = []string{}
	}
	return domain.Routine{
		ID:                row.ID,
		OwnerUserID:       row.OwnerUserID,
		Category:          row.Category,
		Name:              row.Name,
		Description:       row.Description,
		Date:              row.Date,
		Sets:              row.Sets,
		Observations:      row.Observations,
		IsTemplate:        row.IsTemplate,
		OriginalRoutineID: row.OriginalRoutineID,
		ProgramID:         row.ProgramID,
		VideoURLs:         videos,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func toProgramRow(p *domain.TrainingProgram) programRow {
	return programRow{
		ID:          p.ID,
		ProfessorID: p.ProfessorID,
		Name:        p.Name,
		Description: p.Description,
		Weeks:       p.Weeks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (row programRow) toDomain() domain.TrainingProgram {
	return domain.TrainingProgram{
		ID:          row.ID,
		ProfessorID: row.ProfessorID,
		Name:        row.Name,
		Description: row.Description,
		Weeks:       row.Weeks,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
