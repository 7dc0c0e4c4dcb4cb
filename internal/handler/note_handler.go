package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/response"
	"github.com/notegenius/notegenius/internal/service"
)

type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type noteCreateRequest struct {
	Folder            string   `json:"folder"`
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	Tags              []string `json:"tags"`
	ScheduledReminder string   `json:"scheduled_reminder"`
}

type noteUpdateRequest struct {
	Folder            *string   `json:"folder"`
	Title             *string   `json:"title"`
	Content           *string   `json:"content"`
	Tags              *[]string `json:"tags"`
	ScheduledReminder *string   `json:"scheduled_reminder"`
}

func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), getUserID(c), c.Query("folder"), c.Query("search"))
	if err != nil {
		handleError(c, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	response.Success(c, notes)
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req noteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	if req.Folder == "" || req.Title == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "folder and title are required")
		return
	}
	note, err := h.notes.Create(c.Request.Context(), getUserID(c), service.NoteCreateInput{
		Folder:            req.Folder,
		Title:             req.Title,
		Content:           req.Content,
		Tags:              req.Tags,
		ScheduledReminder: req.ScheduledReminder,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	var req noteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request")
		return
	}
	note, err := h.notes.Update(c.Request.Context(), getUserID(c), c.Param("id"), service.NoteUpdateInput{
		Folder:            req.Folder,
		Title:             req.Title,
		Content:           req.Content,
		Tags:              req.Tags,
		ScheduledReminder: req.ScheduledReminder,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Note deleted successfully"})
}

func (h *NoteHandler) Summarize(c *gin.Context) {
	summary, err := h.notes.Summarize(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"summary": summary})
}

func (h *NoteHandler) Folders(c *gin.Context) {
	folders, err := h.notes.Folders(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, folders)
}
