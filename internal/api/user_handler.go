package api

import (
	"alcyxob/routine-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateProfileRequest struct {
	FullName  *string `json:"fullName"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
}

// ListUsers godoc
// @Summary List all users (admin)
// @Tags Users
// @Produce json
// @Success 200 {array} UserResponse
// @Failure 403 {object} gin.H
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = MapUserToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H
// @Failure 409 {object} gin.H "Email already registered"
// @Router /users/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), claims, service.ProfileUpdate{
		FullName:  req.FullName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
