package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/embedding"
	appErr "github.com/notegenius/notegenius/internal/pkg/errors"
)

type fakeNoteStore struct {
	note    *model.Note
	created []*model.Note
	updates []map[string]interface{}
	deleted []string
}

func (f *fakeNoteStore) Create(ctx context.Context, note *model.Note) error {
	f.created = append(f.created, note)
	return nil
}

func (f *fakeNoteStore) GetByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	if f.note == nil || f.note.ID != noteID || f.note.UserID != userID {
		return nil, appErr.ErrNotFound
	}
	copied := *f.note
	return &copied, nil
}

func (f *fakeNoteStore) List(ctx context.Context, userID, folder string) ([]model.Note, error) {
	return nil, nil
}

func (f *fakeNoteStore) ListByIDs(ctx context.Context, userID string, noteIDs []string) ([]model.Note, error) {
	return nil, nil
}

func (f *fakeNoteStore) Update(ctx context.Context, userID, noteID string, fields map[string]interface{}) error {
	if f.note == nil || f.note.ID != noteID || f.note.UserID != userID {
		return appErr.ErrNotFound
	}
	f.updates = append(f.updates, fields)
	return nil
}

func (f *fakeNoteStore) Delete(ctx context.Context, userID, noteID string) error {
	f.deleted = append(f.deleted, noteID)
	return nil
}

func (f *fakeNoteStore) CountByFolder(ctx context.Context, userID string) (map[string]int, error) {
	return nil, nil
}

type fakeEmbeddingRemover struct {
	deleted []string
}

func (f *fakeEmbeddingRemover) DeleteByNote(ctx context.Context, noteID string) error {
	f.deleted = append(f.deleted, noteID)
	return nil
}

func existingNote() *model.Note {
	return &model.Note{
		ID:      "note-1",
		UserID:  "user-1",
		Folder:  "Work",
		Title:   "Standup",
		Content: "old content",
		Summary: "old summary",
		Tags:    []string{"daily"},
		Ctime:   1700000000,
		Mtime:   1700000000,
	}
}

func strPtr(s string) *string { return &s }

func TestNoteServiceCreate(t *testing.T) {
	store := &fakeNoteStore{}
	embeddings := &fakeEmbeddingStore{}
	ai := newTestAIService(&fakeProvider{reply: "generated summary"}, embeddings)
	svc := NewNoteService(store, &fakeEmbeddingRemover{}, ai)

	note, err := svc.Create(context.Background(), "user-1", NoteCreateInput{
		Folder:  "Work",
		Title:   "Standup",
		Content: "notes from standup",
	})
	require.NoError(t, err)
	require.Equal(t, "generated summary", note.Summary)
	require.Equal(t, []string{}, note.Tags)
	require.False(t, note.ReminderSent)
	require.Equal(t, note.Ctime, note.Mtime)
	require.Len(t, store.created, 1)

	require.Len(t, embeddings.upserts, 1)
	require.Equal(t, note.ID, embeddings.upserts[0].NoteID)
	require.Equal(t, embedding.FromText("notes from standup"), embeddings.upserts[0].Vector)
}

func TestNoteServiceUpdateContent(t *testing.T) {
	store := &fakeNoteStore{note: existingNote()}
	embeddings := &fakeEmbeddingStore{}
	ai := newTestAIService(&fakeProvider{reply: "fresh summary"}, embeddings)
	svc := NewNoteService(store, &fakeEmbeddingRemover{}, ai)

	_, err := svc.Update(context.Background(), "user-1", "note-1", NoteUpdateInput{
		Content: strPtr("new content"),
	})
	require.NoError(t, err)
	require.Len(t, store.updates, 1)

	fields := store.updates[0]
	require.Equal(t, "new content", fields["content"])
	require.Equal(t, "fresh summary", fields["summary"])
	require.Contains(t, fields, "mtime")
	// Identity and creation time never travel in the update set.
	require.NotContains(t, fields, "id")
	require.NotContains(t, fields, "user_id")
	require.NotContains(t, fields, "ctime")
	require.NotContains(t, fields, "folder")
	require.NotContains(t, fields, "title")

	require.Len(t, embeddings.upserts, 1)
	require.Equal(t, "note-1", embeddings.upserts[0].NoteID)
	require.Equal(t, embedding.FromText("new content"), embeddings.upserts[0].Vector)
}

func TestNoteServiceUpdateRescheduleResetsSentFlag(t *testing.T) {
	store := &fakeNoteStore{note: existingNote()}
	embeddings := &fakeEmbeddingStore{}
	svc := NewNoteService(store, &fakeEmbeddingRemover{}, newTestAIService(&fakeProvider{}, embeddings))

	_, err := svc.Update(context.Background(), "user-1", "note-1", NoteUpdateInput{
		ScheduledReminder: strPtr("2026-04-01T09:00:00Z"),
	})
	require.NoError(t, err)
	require.Len(t, store.updates, 1)

	fields := store.updates[0]
	require.Equal(t, "2026-04-01T09:00:00Z", fields["scheduled_reminder"])
	require.Equal(t, false, fields["reminder_sent"])
	// No content change, so summary and embedding stay as they are.
	require.NotContains(t, fields, "summary")
	require.Empty(t, embeddings.upserts)
}

func TestNoteServiceUpdateUnknownNote(t *testing.T) {
	store := &fakeNoteStore{note: existingNote()}
	svc := NewNoteService(store, &fakeEmbeddingRemover{}, newTestAIService(&fakeProvider{}, &fakeEmbeddingStore{}))

	_, err := svc.Update(context.Background(), "user-2", "note-1", NoteUpdateInput{Title: strPtr("x")})
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.Empty(t, store.updates)
}

func TestNoteServiceDeleteDropsEmbedding(t *testing.T) {
	store := &fakeNoteStore{note: existingNote()}
	remover := &fakeEmbeddingRemover{}
	svc := NewNoteService(store, remover, newTestAIService(&fakeProvider{}, &fakeEmbeddingStore{}))

	require.NoError(t, svc.Delete(context.Background(), "user-1", "note-1"))
	require.Equal(t, []string{"note-1"}, store.deleted)
	require.Equal(t, []string{"note-1"}, remover.deleted)
}

func TestFilterNotes(t *testing.T) {
	notes := []model.Note{
		{ID: "1", Title: "Project Kickoff", Content: "agenda for monday"},
		{ID: "2", Title: "Groceries", Content: "milk, eggs"},
		{ID: "3", Title: "ideas", Content: "PROJECT roadmap draft"},
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "empty search returns all", search: "", want: []string{"1", "2", "3"}},
		{name: "matches title case-insensitive", search: "project", want: []string{"1", "3"}},
		{name: "matches content", search: "eggs", want: []string{"2"}},
		{name: "no match", search: "vacation", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterNotes(notes, tt.search)
			ids := make([]string, 0, len(got))
			for _, note := range got {
				ids = append(ids, note.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestMergeFolderCounts(t *testing.T) {
	counts := map[string]int{"Work": 3, "Unknown": 9}
	result := mergeFolderCounts(Folders, counts)

	require.Len(t, result, len(Folders))
	require.Equal(t, FolderInfo{Name: "Work", Count: 3}, result[0])
	for _, info := range result[1:] {
		require.Zero(t, info.Count)
	}
}
