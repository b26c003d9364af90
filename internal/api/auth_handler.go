package api

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/metrics"
	"alcyxob/routine-tracker/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService   service.AuthService
	tokenTTL      time.Duration
	secureCookies bool
	metrics       *metrics.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration, secureCookies bool, m *metrics.Manager) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokenTTL:      tokenTTL,
		secureCookies: secureCookies,
		metrics:       m,
	}
}

// --- Request/Response Structs ---

// RegisterRequest accepts either fullName or firstName (+ lastName).
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"fullName"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
	AvatarURL *string     `json:"avatarUrl,omitempty"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates an active account with role USER.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 429 {object} gin.H "Too many attempts"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.CounterRegistrations.Inc()
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user, sets the access_token cookie and returns the token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			h.metrics.CounterLoginFailures.Inc()
		}
		respondError(c, err)
		return
	}

	h.setAccessCookie(c, result.Token)
	c.JSON(http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  MapUserToResponse(result.User),
	})
}

// Profile godoc
// @Summary Current claim
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Claims
// @Failure 401 {object} gin.H
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, claims)
}

// CheckStatus godoc
// @Summary Refresh the session token
// @Description Re-reads the caller and issues a new token and cookie.
// @Tags Auth
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 401 {object} gin.H
// @Router /auth/check-status [get]
func (h *AuthHandler) CheckStatus(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	result, err := h.authService.CheckStatus(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAccessCookie(c, result.Token)
	c.JSON(http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  MapUserToResponse(result.User),
	})
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Success 200 {object} gin.H
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) setAccessCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secureCookies, true)
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
