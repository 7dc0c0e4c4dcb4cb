package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/timeutil"
)

// Folders is the fixed folder set; notes carry the folder as a free-text
// label, these are what the dashboard shows counts for.
var Folders = []string{"Work", "Personal", "Ideas", "Meeting Notes"}

// NoteStore is the persistence surface the note service drives.
type NoteStore interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, userID, noteID string) (*model.Note, error)
	List(ctx context.Context, userID, folder string) ([]model.Note, error)
	ListByIDs(ctx context.Context, userID string, noteIDs []string) ([]model.Note, error)
	Update(ctx context.Context, userID, noteID string, fields map[string]interface{}) error
	Delete(ctx context.Context, userID, noteID string) error
	CountByFolder(ctx context.Context, userID string) (map[string]int, error)
}

// EmbeddingRemover drops a note's stored vector when the note goes away.
type EmbeddingRemover interface {
	DeleteByNote(ctx context.Context, noteID string) error
}

type NoteService struct {
	notes      NoteStore
	embeddings EmbeddingRemover
	ai         *AIService
}

func NewNoteService(notes NoteStore, embeddings EmbeddingRemover, ai *AIService) *NoteService {
	return &NoteService{notes: notes, embeddings: embeddings, ai: ai}
}

type NoteCreateInput struct {
	Folder            string
	Title             string
	Content           string
	Tags              []string
	ScheduledReminder string
}

type NoteUpdateInput struct {
	Folder            *string
	Title             *string
	Content           *string
	Tags              *[]string
	ScheduledReminder *string
}

func (s *NoteService) Create(ctx context.Context, userID string, input NoteCreateInput) (*model.Note, error) {
	now := timeutil.NowUnix()
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	note := &model.Note{
		ID:                newID(),
		UserID:            userID,
		Folder:            input.Folder,
		Title:             input.Title,
		Content:           input.Content,
		Summary:           s.ai.Summarize(ctx, input.Content),
		Tags:              tags,
		ScheduledReminder: input.ScheduledReminder,
		ReminderSent:      false,
		Ctime:             now,
		Mtime:             now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	if err := s.ai.SyncEmbedding(ctx, userID, note.ID, note.Content); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, input NoteUpdateInput) (*model.Note, error) {
	if _, err := s.notes.GetByID(ctx, userID, noteID); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"mtime": timeutil.NowUnix()}
	if input.Folder != nil {
		fields["folder"] = *input.Folder
	}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Content != nil {
		fields["content"] = *input.Content
		fields["summary"] = s.ai.Summarize(ctx, *input.Content)
	}
	if input.Tags != nil {
		tags, err := json.Marshal(*input.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = tags
	}
	if input.ScheduledReminder != nil {
		// Re-scheduling moves the note back to the pending-reminder state.
		fields["scheduled_reminder"] = *input.ScheduledReminder
		fields["reminder_sent"] = false
	}
	if err := s.notes.Update(ctx, userID, noteID, fields); err != nil {
		return nil, err
	}
	if input.Content != nil {
		if err := s.ai.SyncEmbedding(ctx, userID, noteID, *input.Content); err != nil {
			return nil, err
		}
	}
	return s.notes.GetByID(ctx, userID, noteID)
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := s.notes.Delete(ctx, userID, noteID); err != nil {
		return err
	}
	return s.embeddings.DeleteByNote(ctx, noteID)
}

func (s *NoteService) List(ctx context.Context, userID, folder, search string) ([]model.Note, error) {
	notes, err := s.notes.List(ctx, userID, folder)
	if err != nil {
		return nil, err
	}
	return filterNotes(notes, search), nil
}

func (s *NoteService) ListByIDs(ctx context.Context, userID string, noteIDs []string) ([]model.Note, error) {
	return s.notes.ListByIDs(ctx, userID, noteIDs)
}

// Summarize regenerates only the summary; the note's mtime is left alone so
// the list order does not shuffle.
func (s *NoteService) Summarize(ctx context.Context, userID, noteID string) (string, error) {
	note, err := s.notes.GetByID(ctx, userID, noteID)
	if err != nil {
		return "", err
	}
	summary := s.ai.Summarize(ctx, note.Content)
	if err := s.notes.Update(ctx, userID, noteID, map[string]interface{}{"summary": summary}); err != nil {
		return "", err
	}
	return summary, nil
}

type FolderInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *NoteService) Folders(ctx context.Context, userID string) ([]FolderInfo, error) {
	counts, err := s.notes.CountByFolder(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mergeFolderCounts(Folders, counts), nil
}

func filterNotes(notes []model.Note, search string) []model.Note {
	if search == "" {
		return notes
	}
	needle := strings.ToLower(search)
	filtered := make([]model.Note, 0, len(notes))
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note.Title), needle) ||
			strings.Contains(strings.ToLower(note.Content), needle) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

func mergeFolderCounts(names []string, counts map[string]int) []FolderInfo {
	result := make([]FolderInfo, 0, len(names))
	for _, name := range names {
		result = append(result, FolderInfo{Name: name, Count: counts[name]})
	}
	return result
}
