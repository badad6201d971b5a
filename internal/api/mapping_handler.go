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

// MappingHandler serves the trainer-member mapping endpoints.
type MappingHandler struct {
	mappingService service.MappingService
}

// NewMappingHandler creates a new MappingHandler.
func NewMappingHandler(mappingService service.MappingService) *MappingHandler {
	return &MappingHandler{mappingService: mappingService}
}

// --- Request/Response Structs ---

type MappingRequestBody struct {
	OtherUID string `json:"other_uid" binding:"required"`
}

type MappingStatusBody struct {
	NewStatus string `json:"new_status" binding:"required"`
}

type MappingResponse struct {
	ID           string `json:"id"`
	TrainerUID   string `json:"trainer_uid"`
	MemberUID    string `json:"member_uid"`
	Status       string `json:"status"`
	RequesterUID string `json:"requester_uid"`
}

func mapMappingToResponse(m *domain.Mapping) MappingResponse {
	return MappingResponse{
		ID:           m.ID.Hex(),
		TrainerUID:   m.TrainerUID,
		MemberUID:    m.MemberUID,
		Status:       string(m.Status),
		RequesterUID: m.RequesterUID,
	}
}

func mapMappingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMappingNotFound), errors.Is(err, service.ErrCounterpartyNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMappingExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidMappingStatus):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotMappingParty), errors.Is(err, service.ErrOwnRequest):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Handler Methods ---

// RequestMapping serves POST /trainer-user-mapping/request.
func (h *MappingHandler) RequestMapping(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	var req MappingRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	mapping, err := h.mappingService.RequestMapping(c.Request.Context(), principal, req.OtherUID)
	if err != nil {
		mapMappingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapMappingToResponse(mapping))
}

// UpdateMappingStatus serves PUT /trainer-user-mapping/:id/status.
func (h *MappingHandler) UpdateMappingStatus(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	mappingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid mapping ID format")
		return
	}

	var req MappingStatusBody
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	mapping, err := h.mappingService.UpdateMappingStatus(c.Request.Context(), mappingID, principal, req.NewStatus)
	if err != nil {
		mapMappingError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapMappingToResponse(mapping))
}

// ListMyMappings serves GET /my-mappings/.
func (h *MappingHandler) ListMyMappings(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	infos, err := h.mappingService.ListMappings(c.Request.Context(), principal)
	if err != nil {
		mapMappingError(c, err)
		return
	}
	c.JSON(http.StatusOK, infos)
}

// RemoveMapping serves DELETE /trainer-user-mapping/:other_uid. Removal is
// idempotent; the response just says whether anything was there.
func (h *MappingHandler) RemoveMapping(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	removed, err := h.mappingService.RemoveMapping(c.Request.Context(), principal, c.Param("other_uid"))
	if err != nil {
		mapMappingError(c, err)
		return
	}

	if removed {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully removed the trainer-user mapping"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "No trainer-user mapping found to remove"})
	}
}

// CheckMapping serves GET /check-trainer-user-mapping/:trainer_uid/:member_uid,
// the endpoint behind the workout service's authorization gateway. Only an
// accepted mapping counts. A trainer may only ask about their own links.
func (h *MappingHandler) CheckMapping(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	trainerUID := c.Param("trainer_uid")
	memberUID := c.Param("member_uid")

	if principal.IsTrainer() && principal.UID != trainerUID {
		abortWithError(c, http.StatusForbidden, "Not authorized to check this mapping")
		return
	}

	exists, err := h.mappingService.IsAccepted(c.Request.Context(), trainerUID, memberUID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// ConnectedMember serves GET /trainer/connected-users/:member_uid.
func (h *MappingHandler) ConnectedMember(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Principal not found in context")
		return
	}

	member, err := h.mappingService.ConnectedMember(c.Request.Context(), principal.UID, c.Param("member_uid"))
	if err != nil {
		if errors.Is(err, service.ErrMappingNotFound) {
			abortWithError(c, http.StatusNotFound, "Connected user not found")
			return
		}
		mapMappingError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}
