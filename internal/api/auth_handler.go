package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// LoginRequest matches the form-encoded OAuth2 password flow: the username
// field carries the email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MemberResponse excludes sensitive info like the password hash.
type MemberResponse struct {
	UID              string    `json:"uid"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Age              *int      `json:"age,omitempty"`
	Height           *float64  `json:"height,omitempty"`
	Weight           *float64  `json:"weight,omitempty"`
	WorkoutDuration  *int      `json:"workout_duration,omitempty"`
	WorkoutFrequency *int      `json:"workout_frequency,omitempty"`
	WorkoutGoal      *int      `json:"workout_goal,omitempty"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

type TrainerResponse struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Handler Methods ---

// Login authenticates a member or trainer and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			c.Header("WWW-Authenticate", "Bearer")
			abortWithError(c, http.StatusUnauthorized, "Incorrect username or password")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RegisterMember creates a new member account.
func (h *AuthHandler) RegisterMember(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	member, err := h.authService.RegisterMember(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapMemberToResponse(member))
}

// RegisterTrainer creates a new trainer account.
func (h *AuthHandler) RegisterTrainer(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainer, err := h.authService.RegisterTrainer(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapTrainerToResponse(trainer))
}

// MapMemberToResponse converts a domain Member to its DTO.
func MapMemberToResponse(member *domain.Member) MemberResponse {
	if member == nil {
		return MemberResponse{}
	}
	return MemberResponse{
		UID:              member.UID,
		Email:            member.Email,
		FirstName:        member.FirstName,
		LastName:         member.LastName,
		Age:              member.Age,
		Height:           member.Height,
		Weight:           member.Weight,
		WorkoutDuration:  member.WorkoutDuration,
		WorkoutFrequency: member.WorkoutFrequency,
		WorkoutGoal:      member.WorkoutGoal,
		Role:             string(domain.KindMember),
		CreatedAt:        member.CreatedAt,
	}
}

// MapTrainerToResponse converts a domain Trainer to its DTO.
func MapTrainerToResponse(trainer *domain.Trainer) TrainerResponse {
	if trainer == nil {
		return TrainerResponse{}
	}
	return TrainerResponse{
		UID:       trainer.UID,
		Email:     trainer.Email,
		FirstName: trainer.FirstName,
		LastName:  trainer.LastName,
		Role:      string(domain.KindTrainer),
		CreatedAt: trainer.CreatedAt,
	}
}
