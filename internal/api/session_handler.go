package api

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler serves the workout session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request Structs ---

type CreateSessionRequest struct {
	SessionType string `json:"session_type"`
	MemberUID   string `json:"member_uid"`
	QuestID     string `json:"quest_id"`
}

type SaveSessionRequest struct {
	Sets []domain.SetRecord `json:"sets" binding:"required"`
}

func mapSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrQuestNotFound),
		errors.Is(err, service.ErrNoSessionsYet):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionAccessDenied),
		errors.Is(err, service.ErrQuestMemberMismatch):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrQuestRequired),
		errors.Is(err, service.ErrMemberRequired),
		errors.Is(err, service.ErrInvalidSessionType):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Handler Methods ---

// CreateSession serves POST /api/sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.CreateSessionInput{
		SessionType: req.SessionType,
		MemberUID:   req.MemberUID,
	}
	if req.QuestID != "" {
		questID, err := primitive.ObjectIDFromHex(req.QuestID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid quest ID format")
			return
		}
		input.QuestID = &questID
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), principal, getTokenFromContext(c), input)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// SaveSession serves POST /api/sessions/:id/save.
func (h *SessionHandler) SaveSession(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.sessionService.SaveSession(c.Request.Context(), principal, sessionID, req.Sets)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSessions serves GET /api/sessions/:member_uid.
func (h *SessionHandler) GetSessions(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	sessions, err := h.sessionService.GetSessions(c.Request.Context(), principal, getTokenFromContext(c), c.Param("member_uid"))
	if err != nil {
		mapSessionError(c, err)
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	c.JSON(http.StatusOK, sessions)
}

// SessionCounts serves GET /api/session-counts/:member_uid.
func (h *SessionHandler) SessionCounts(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "start_date must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "end_date must be RFC3339")
		return
	}

	counts, err := h.sessionService.SessionCounts(c.Request.Context(), principal, getTokenFromContext(c), c.Param("member_uid"), start, end)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// WorkoutRecords serves GET /api/workout-records/:workout_key, the caller's
// latest recorded sets for one workout keyed by set number.
func (h *SessionHandler) WorkoutRecords(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	workoutKey, err := strconv.Atoi(c.Param("workout_key"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "workout_key must be an integer")
		return
	}

	records, err := h.sessionService.WorkoutRecords(c.Request.Context(), principal, workoutKey)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// LastSessionUpdate serves GET /api/last-session-update/:member_uid.
func (h *SessionHandler) LastSessionUpdate(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	last, err := h.sessionService.LastSessionUpdate(c.Request.Context(), principal, getTokenFromContext(c), c.Param("member_uid"))
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_updated": last.Format(time.RFC3339)})
}
