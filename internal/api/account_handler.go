package api

import (
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves profile reads, updates and deletion.
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// --- Request Structs ---

type MemberUpdateRequest struct {
	CurrentPassword  *string  `json:"current_password"`
	NewPassword      *string  `json:"new_password"`
	ConfirmPassword  *string  `json:"confirm_password"`
	Age              *int     `json:"age"`
	Height           *float64 `json:"height"`
	Weight           *float64 `json:"weight"`
	WorkoutDuration  *int     `json:"workout_duration"`
	WorkoutFrequency *int     `json:"workout_frequency"`
	WorkoutGoal      *int     `json:"workout_goal"`
}

type TrainerUpdateRequest struct {
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
	ConfirmPassword *string `json:"confirm_password"`
}

func mapAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound), errors.Is(err, service.ErrTrainerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrPasswordConfirm),
		errors.Is(err, service.ErrIncompleteChange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Handler Methods ---

// GetMe returns the caller's own account record.
func (h *AccountHandler) GetMe(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	if principal.IsTrainer() {
		trainer, err := h.accountService.GetTrainerByUID(c.Request.Context(), principal.UID)
		if err != nil {
			mapAccountError(c, err)
			return
		}
		c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
		return
	}

	member, err := h.accountService.GetMemberByUID(c.Request.Context(), principal.UID)
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// UpdateMember applies profile and password changes to the calling member.
func (h *AccountHandler) UpdateMember(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	var req MemberUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	member, err := h.accountService.UpdateMember(c.Request.Context(), principal.UID, service.MemberUpdate{
		CurrentPassword:  req.CurrentPassword,
		NewPassword:      req.NewPassword,
		ConfirmPassword:  req.ConfirmPassword,
		Age:              req.Age,
		Height:           req.Height,
		Weight:           req.Weight,
		WorkoutDuration:  req.WorkoutDuration,
		WorkoutFrequency: req.WorkoutFrequency,
		WorkoutGoal:      req.WorkoutGoal,
	})
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// UpdateTrainer applies password changes to the calling trainer.
func (h *AccountHandler) UpdateTrainer(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	var req TrainerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainer, err := h.accountService.UpdateTrainer(c.Request.Context(), principal.UID, service.TrainerUpdate{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// DeleteMe removes the caller's account and its mappings.
func (h *AccountHandler) DeleteMe(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	if principal.IsTrainer() {
		err = h.accountService.DeleteTrainer(c.Request.Context(), principal.UID)
	} else {
		err = h.accountService.DeleteMember(c.Request.Context(), principal.UID)
	}
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// GetMemberByUID serves GET /users/byid/:uid.
func (h *AccountHandler) GetMemberByUID(c *gin.Context) {
	member, err := h.accountService.GetMemberByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// GetMemberByEmail serves GET /users/byemail/:email.
func (h *AccountHandler) GetMemberByEmail(c *gin.Context) {
	member, err := h.accountService.GetMemberByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// GetTrainerByUID serves GET /trainers/byid/:uid.
func (h *AccountHandler) GetTrainerByUID(c *gin.Context) {
	trainer, err := h.accountService.GetTrainerByUID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}

// GetTrainerByEmail serves GET /trainers/byemail/:email.
func (h *AccountHandler) GetTrainerByEmail(c *gin.Context) {
	trainer, err := h.accountService.GetTrainerByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		mapAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapTrainerToResponse(trainer))
}
