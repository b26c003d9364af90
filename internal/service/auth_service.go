package service

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordHashCost  = 10
	minPasswordLength = 6
)

// RegisterInput is the registration payload. Either FullName or FirstName
// (with an optional LastName) must be given.
type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	FirstName string
	LastName  string
}

// AuthResult is returned by every flow that issues a session token.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CheckStatus(ctx context.Context, claims domain.Claims) (*AuthResult, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates an active USER account.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	firstName, lastName := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if firstName == "" && strings.TrimSpace(in.FullName) != "" {
		firstName, lastName = domain.SplitFullName(in.FullName)
	}

	fields := map[string]string{}
	if msg := checkEmail(email); msg != "" {
		fields["email"] = msg
	}
	if msg := checkPassword(in.Password); msg != "" {
		fields["password"] = msg
	}
	if firstName == "" {
		fields["fullName"] = "full name is required"
	}
	if err := validationError(fields); err != nil {
		return nil, err
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: &hash,
		Role:         domain.RoleUser,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Another request may have taken the email since the lookup above.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail with the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	// Federated accounts have no local password.
	if user.PasswordHash == nil {
		return nil, ErrAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issue(user)
}

// CheckStatus re-reads the caller and issues a fresh token with current data.
func (s *authService) CheckStatus(ctx context.Context, claims domain.Claims) (*AuthResult, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.issue(user)
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(ClaimsFor(user))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ClaimsFor builds the token payload of a user.
func ClaimsFor(user *domain.User) domain.Claims {
	return domain.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkEmail(email string) string {
	if email == "" {
		return "email is required"
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return "email must be a valid address"
	}
	return ""
}

func checkPassword(password string) string {
	if len(password) < minPasswordLength {
		return fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	return ""
}
