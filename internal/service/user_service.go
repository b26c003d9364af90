package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"
	"strings"
)

// ProfileUpdate holds the optional fields of PATCH /users/profile.
type ProfileUpdate struct {
	FullName  *string
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	AvatarURL *string
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, claims domain.Claims, in ProfileUpdate) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// List returns every account. Password hashes never leave the domain type's JSON.
func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateProfile changes the caller's own name, email, password or avatar.
func (s *userService) UpdateProfile(ctx context.Context, claims domain.Claims, in ProfileUpdate) (*domain.User, error) {
	var patch domain.UserPatch
	fields := map[string]string{}

	if in.FullName != nil {
		first, last := domain.SplitFullName(*in.FullName)
		if first == "" {
			fields["fullName"] = "full name cannot be empty"
		}
		patch.FirstName, patch.LastName = &first, &last
	}
	if in.FirstName != nil {
		first := strings.TrimSpace(*in.FirstName)
		if first == "" {
			fields["firstName"] = "first name cannot be empty"
		}
		patch.FirstName = &first
	}
	if in.LastName != nil {
		last := strings.TrimSpace(*in.LastName)
		patch.LastName = &last
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if msg := checkEmail(email); msg != "" {
			fields["email"] = msg
		}
		patch.Email = &email
	}
	if in.Password != nil {
		if msg := checkPassword(*in.Password); msg != "" {
			fields["password"] = msg
		}
	}
	if in.AvatarURL != nil {
		patch.AvatarURL = in.AvatarURL
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	user, err := s.userRepo.Update(ctx, claims.UserID, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
