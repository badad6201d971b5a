package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestHandler serves the quest endpoints.
type QuestHandler struct {
	questService service.QuestService
}

// NewQuestHandler creates a new QuestHandler.
func NewQuestHandler(questService service.QuestService) *QuestHandler {
	return &QuestHandler{questService: questService}
}

type CreateQuestRequest struct {
	MemberUID string                `json:"member_uid" binding:"required"`
	Workouts  []domain.QuestWorkout `json:"workouts" binding:"required"`
}

func mapQuestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuestNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrQuestAccessDenied),
		errors.Is(err, service.ErrTrainerOnly),
		errors.Is(err, service.ErrMemberOnly),
		errors.Is(err, service.ErrNotLinked):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmptyQuest):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// CreateQuest serves POST /api/quests.
func (h *QuestHandler) CreateQuest(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	var req CreateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	quest, err := h.questService.CreateQuest(c.Request.Context(), principal, getTokenFromContext(c), service.QuestInput{
		MemberUID: req.MemberUID,
		Workouts:  req.Workouts,
	})
	if err != nil {
		mapQuestError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quest)
}

// ListQuests serves GET /api/quests.
func (h *QuestHandler) ListQuests(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	quests, err := h.questService.ListQuests(c.Request.Context(), principal)
	if err != nil {
		mapQuestError(c, err)
		return
	}
	if quests == nil {
		quests = []domain.Quest{}
	}
	c.JSON(http.StatusOK, quests)
}

// ListQuestsForMember serves GET /api/quests/member/:member_uid.
func (h *QuestHandler) ListQuestsForMember(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	quests, err := h.questService.ListQuestsForMember(c.Request.Context(), principal, getTokenFromContext(c), c.Param("member_uid"))
	if err != nil {
		mapQuestError(c, err)
		return
	}
	if quests == nil {
		quests = []domain.Quest{}
	}
	c.JSON(http.StatusOK, quests)
}

// OldestNotStarted serves GET /api/quests/oldest-not-started.
func (h *QuestHandler) OldestNotStarted(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	quest, err := h.questService.OldestNotStarted(c.Request.Context(), principal)
	if err != nil {
		mapQuestError(c, err)
		return
	}
	c.JSON(http.StatusOK, quest)
}

// DeleteQuest serves DELETE /api/quests/:id.
func (h *QuestHandler) DeleteQuest(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	questID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid quest ID format")
		return
	}

	if err := h.questService.DeleteQuest(c.Request.Context(), principal, questID); err != nil {
		mapQuestError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
