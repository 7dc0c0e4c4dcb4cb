package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/response"
	"github.com/notegenius/notegenius/internal/service"
)

type AIHandler struct {
	ai    *service.AIService
	notes *service.NoteService
}

func NewAIHandler(ai *service.AIService, notes *service.NoteService) *AIHandler {
	return &AIHandler{ai: ai, notes: notes}
}

type askRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *AIHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	answer, err := h.ai.Ask(c.Request.Context(), req.Question, req.Context)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"response": answer})
}

func (h *AIHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	userID := getUserID(c)
	noteIDs, err := h.ai.SemanticSearch(c.Request.Context(), userID, req.Query)
	if err != nil {
		handleError(c, err)
		return
	}
	if len(noteIDs) == 0 {
		response.Success(c, []model.Note{})
		return
	}
	notes, err := h.notes.ListByIDs(c.Request.Context(), userID, noteIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	// Re-sort to the ranking order; ListByIDs gives no ordering guarantee.
	noteMap := make(map[string]model.Note, len(notes))
	for _, note := range notes {
		noteMap[note.ID] = note
	}
	results := make([]model.Note, 0, len(noteIDs))
	for _, id := range noteIDs {
		if note, ok := noteMap[id]; ok {
			results = append(results, note)
		}
	}
	response.Success(c, results)
}
