// internal/domain/training_program.go
package domain

import "time"

// TrainingProgram is a professor-authored template. Its routines are stored as
// template Routines carrying the program's ID.
type TrainingProgram struct {
	ID          string    `bson:"_id" json:"id"`
	ProfessorID string    `bson:"professorId" json:"professorId"` // Who authored the program
	Name        string    `bson:"name" json:"name"`
	Description *string   `bson:"description,omitempty" json:"description,omitempty"`
	Weeks       *int      `bson:"weeks,omitempty" json:"weeks,omitempty"` // Optional duration, >= 1
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProgramAssignment grants a user access to a program. It carries no other state.
type ProgramAssignment struct {
	ID        string    `bson:"_id" json:"id"`
	ProgramID string    `bson:"programId" json:"programId"`
	UserID    string    `bson:"userId" json:"userId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
