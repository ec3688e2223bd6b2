package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.POST("/analyses/:id/outreach", h.regenerateOutreach)
	rg.GET("/analyses/:id/preview", h.previewAnalysis)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.GET("/analyses", h.listAnalyses)
}

func (h *Handler) createAnalysis(c *gin.Context) {
	req, err := ParseRequest(c.Request)
	if err != nil {
		writeError(c, err)
		return
	}

	record, err := h.Svc.Analyze(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Set("resumeId", record.ID)
	respond.Success(c, gin.H{
		"resumeId": record.ID,
		"feedback": record.Feedback,
	})
}

type outreachRequest struct {
	UserFeedback string `json:"userFeedback"`
}

func (h *Handler) regenerateOutreach(c *gin.Context) {
	recordID := c.Param("id")
	var body outreachRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Failure(c, http.StatusBadRequest, ErrorCodeMissingFields, "userFeedback is required")
		return
	}

	message, err := h.Svc.RegenerateOutreach(c.Request.Context(), recordID, body.UserFeedback)
	if err != nil {
		writeError(c, err)
		return
	}

	respond.Success(c, gin.H{
		"resumeId":            recordID,
		"coldOutreachMessage": message,
	})
}

func (h *Handler) previewAnalysis(c *gin.Context) {
	url, err := h.Svc.PreviewURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{"cvUrl": url})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	record, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Success(c, gin.H{"analysis": record})
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	records, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []AnalysisRecord{}
	}
	respond.Success(c, gin.H{"analyses": records})
}

func writeError(c *gin.Context, err error) {
	var pipeErr *PipelineError
	switch {
	case errors.As(err, &pipeErr):
		respond.Failure(c, pipeErr.Status, pipeErr.Code, pipeErr.Message)
	case errors.Is(err, ErrNotFound):
		respond.Failure(c, http.StatusNotFound, "", "Analysis not found")
	default:
		respond.Failure(c, http.StatusInternalServerError, "", "Unexpected server error")
	}
}
