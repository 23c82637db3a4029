package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minhtran24/meethub/internal/api/http/converter"
	"github.com/minhtran24/meethub/internal/domain"
	"github.com/minhtran24/meethub/internal/service"
	"github.com/minhtran24/meethub/internal/signaling"
)

type MeetingController struct {
	meetings service.MeetingInteractor
	registry *signaling.Registry
}

func NewMeetingController(meetings service.MeetingInteractor, registry *signaling.Registry) *MeetingController {
	return &MeetingController{meetings: meetings, registry: registry}
}

func (c *MeetingController) CreateMeeting(ctx *gin.Context) {
	type request struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		StartTime   time.Time `json:"start_time"`
		EndTime     time.Time `json:"end_time"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user := currentUser(ctx)
	if user == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	meeting, err := c.meetings.CreateMeeting(ctx.Request.Context(), req.Title, req.Description, user.ID, req.StartTime, req.EndTime)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"meeting": converter.MeetingToApi(meeting)})
}

func (c *MeetingController) ListMeetings(ctx *gin.Context) {
	meetings, err := c.meetings.ListMeetings(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]*converter.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		result = append(result, converter.MeetingToApi(m))
	}

	ctx.JSON(http.StatusOK, gin.H{"meetings": result})
}

func (c *MeetingController) GetMeeting(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	meeting, err := c.meetings.GetMeeting(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMeetingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"meeting": converter.MeetingToApi(meeting)})
}

func (c *MeetingController) GetMeetingByRoomID(ctx *gin.Context) {
	meeting, err := c.meetings.GetMeetingByRoomID(ctx.Request.Context(), ctx.Param("roomID"))
	if err != nil {
		if errors.Is(err, service.ErrMeetingNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"meeting": converter.MeetingToApi(meeting)})
}

// ListActiveParticipants reports who is connected to the room right now,
// from the signaling registry rather than the persisted participant list.
func (c *MeetingController) ListActiveParticipants(ctx *gin.Context) {
	participants := c.registry.Participants(ctx.Param("roomID"))
	if participants == nil {
		participants = []signaling.Participant{}
	}

	ctx.JSON(http.StatusOK, gin.H{"participants": participants})
}

func (c *MeetingController) UpdateStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("meetingID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting id"})
		return
	}

	type request struct {
		Status string `json:"status" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !domain.ValidMeetingStatus(req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid meeting status"})
		return
	}

	meeting, err := c.meetings.UpdateStatus(ctx.Request.Context(), id, domain.MeetingStatus(req.Status), currentUser(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMeetingNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotMeetingOwner):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"meeting": converter.MeetingToApi(meeting)})
}
