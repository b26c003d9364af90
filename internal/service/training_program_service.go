package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ProgramInput is the payload of a new training program.
type ProgramInput struct {
	Name        string
	Description *string
	Weeks       *int
}

type TrainingProgramService interface {
	CreateProgram(ctx context.Context, professorID string, in ProgramInput) (*domain.TrainingProgram, error)
	AssignToUser(ctx context.Context, programID, userID string) (*domain.ProgramAssignment, error)
	CloneProgramForUser(ctx context.Context, programID, userID string) (int, error)
	AddTemplateRoutine(ctx context.Context, claims domain.Claims, programID string, routine domain.Routine) (*domain.Routine, error)
	ListOwnPrograms(ctx context.Context, claims domain.Claims) ([]domain.TrainingProgram, error)
	ListAssignedPrograms(ctx context.Context, claims domain.Claims) ([]domain.TrainingProgram, error)
}

type trainingProgramService struct {
	userRepo    repository.UserRepository
	programRepo repository.TrainingProgramRepository
	routineRepo repository.RoutineRepository
}

func NewTrainingProgramService(
	userRepo repository.UserRepository,
	programRepo repository.TrainingProgramRepository,
	routineRepo repository.RoutineRepository,
) TrainingProgramService {
	return &trainingProgramService{
		userRepo:    userRepo,
		programRepo: programRepo,
		routineRepo: routineRepo,
	}
}

// CreateProgram stores a program authored by professorID, who must be a PROFESSOR or ADMIN.
func (s *trainingProgramService) CreateProgram(ctx context.Context, professorID string, in ProgramInput) (*domain.TrainingProgram, error) {
	professor, err := s.userRepo.GetByID(ctx, professorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !professor.HasAnyRole(domain.RoleProfessor, domain.RoleAdmin) {
		return nil, ErrNotProfessor
	}

	fields := map[string]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "name is required"
	}
	if in.Weeks != nil && *in.Weeks < 1 {
		fields["weeks"] = "weeks must be at least 1"
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	program := &domain.TrainingProgram{
		ProfessorID: professor.ID,
		Name:        name,
		Description: in.Description,
		Weeks:       in.Weeks,
	}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// AssignToUser records the assignment without checking that the program or the user exist.
func (s *trainingProgramService) AssignToUser(ctx context.Context, programID, userID string) (*domain.ProgramAssignment, error) {
	assignment := &domain.ProgramAssignment{
		ProgramID: programID,
		UserID:    userID,
	}
	if err := s.programRepo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// CloneProgramForUser copies every template routine of the program into the
// user's own routines. Either all copies are stored or none; the count is returned.
func (s *trainingProgramService) CloneProgramForUser(ctx context.Context, programID, userID string) (int, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return 0, err
	}

	templates, err := s.routineRepo.ListTemplatesByProgram(ctx, program.ID)
	if err != nil {
		return 0, err
	}

	clones := make([]domain.Routine, len(templates))
	for i := range templates {
		clones[i] = templates[i].CloneFor(userID, program.ID)
	}
	if err := s.routineRepo.CreateMany(ctx, clones); err != nil {
		return 0, fmt.Errorf("clone program %s: %w", program.ID, err)
	}

	log.WithFields(log.Fields{
		"program_id": program.ID,
		"user_id":    userID,
		"count":      len(clones),
	}).Info("training program cloned")
	return len(clones), nil
}

// AddTemplateRoutine attaches a template routine to a program the caller authored.
// Admins may add to any program.
func (s *trainingProgramService) AddTemplateRoutine(ctx context.Context, claims domain.Claims, programID string, routine domain.Routine) (*domain.Routine, error) {
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.ProfessorID != claims.UserID && !domain.HasAnyRole(claims.Role, domain.RoleAdmin) {
		return nil, ErrProgramNotFound
	}

	pid := program.ID
	routine.ID = ""
	routine.OwnerUserID = claims.UserID
	routine.IsTemplate = true
	routine.ProgramID = &pid
	routine.OriginalRoutineID = nil
	if routine.VideoURLs == nil {
		routine.VideoURLs = []string{}
	}
	if err := validateRoutine(&routine); err != nil {
		return nil, err
	}

	if err := s.routineRepo.Create(ctx, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

func (s *trainingProgramService) ListOwnPrograms(ctx context.Context, claims domain.Claims) ([]domain.TrainingProgram, error) {
	return s.programRepo.ListByProfessor(ctx, claims.UserID)
}

func (s *trainingProgramService) ListAssignedPrograms(ctx context.Context, claims domain.Claims) ([]domain.TrainingProgram, error) {
	return s.programRepo.ListAssignedToUser(ctx, claims.UserID)
}

func (s *trainingProgramService) getProgram(ctx context.Context, programID string) (*domain.TrainingProgram, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}
