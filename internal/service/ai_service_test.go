package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/embedding"
	appErr "github.com/notegenius/notegenius/internal/pkg/errors"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(ctx context.Context, model, system, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeEmbeddingStore struct {
	items   []model.NoteEmbedding
	upserts []model.NoteEmbedding
	listErr error
}

func (f *fakeEmbeddingStore) Upsert(ctx context.Context, emb *model.NoteEmbedding) error {
	f.upserts = append(f.upserts, *emb)
	return nil
}

func (f *fakeEmbeddingStore) ListByUser(ctx context.Context, userID string) ([]model.NoteEmbedding, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func newTestAIService(provider *fakeProvider, store *fakeEmbeddingStore) *AIService {
	return NewAIService(provider, "test-model", 4000, 5, store)
}

func TestSummarize(t *testing.T) {
	provider := &fakeProvider{reply: "A short summary."}
	svc := newTestAIService(provider, &fakeEmbeddingStore{})

	summary := svc.Summarize(context.Background(), "long note content")
	require.Equal(t, "A short summary.", summary)
}

func TestSummarizeFailureDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream 500")}
	svc := newTestAIService(provider, &fakeEmbeddingStore{})

	summary := svc.Summarize(context.Background(), "content")
	require.Equal(t, SummaryUnavailable, summary)
}

func TestSummarizeEmptyContent(t *testing.T) {
	provider := &fakeProvider{reply: "should not be called"}
	svc := newTestAIService(provider, &fakeEmbeddingStore{})

	require.Equal(t, SummaryUnavailable, svc.Summarize(context.Background(), "   "))
	require.Zero(t, provider.calls)
}

func TestSummarizeCacheHit(t *testing.T) {
	provider := &fakeProvider{reply: "cached summary"}
	svc := newTestAIService(provider, &fakeEmbeddingStore{})

	first := svc.Summarize(context.Background(), "same content")
	second := svc.Summarize(context.Background(), "same content")
	require.Equal(t, first, second)
	require.Equal(t, 1, provider.calls)
}

func TestAsk(t *testing.T) {
	provider := &fakeProvider{reply: "42"}
	svc := newTestAIService(provider, &fakeEmbeddingStore{})

	answer, err := svc.Ask(context.Background(), "what is the answer?", "notes context")
	require.NoError(t, err)
	require.Equal(t, "42", answer)
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := newTestAIService(&fakeProvider{reply: "x"}, &fakeEmbeddingStore{})

	_, err := svc.Ask(context.Background(), "  ", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestAskOversizePrompt(t *testing.T) {
	svc := NewAIService(&fakeProvider{reply: "x"}, "test-model", 10, 5, &fakeEmbeddingStore{})

	_, err := svc.Ask(context.Background(), "this question is longer than ten characters", "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestAskProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("timeout")}
	svc := newTestAIService(provider, &fakeEmbeddingStore{})

	_, err := svc.Ask(context.Background(), "question", "")
	require.ErrorIs(t, err, appErr.ErrAIUnavailable)
}

func TestSyncEmbedding(t *testing.T) {
	store := &fakeEmbeddingStore{}
	svc := newTestAIService(&fakeProvider{}, store)

	require.NoError(t, svc.SyncEmbedding(context.Background(), "user-1", "note-1", "note content"))
	require.Len(t, store.upserts, 1)
	require.Equal(t, "note-1", store.upserts[0].NoteID)
	require.Equal(t, embedding.FromText("note content"), store.upserts[0].Vector)
}

func TestSemanticSearchRanking(t *testing.T) {
	store := &fakeEmbeddingStore{items: []model.NoteEmbedding{
		{NoteID: "other", UserID: "user-1", Vector: embedding.FromText("grocery list")},
		{NoteID: "exact", UserID: "user-1", Vector: embedding.FromText("project kickoff meeting")},
	}}
	svc := newTestAIService(&fakeProvider{}, store)

	ids, err := svc.SemanticSearch(context.Background(), "user-1", "project kickoff meeting")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	// The identical text has cosine 1 and must rank first.
	require.Equal(t, "exact", ids[0])
}

func TestSemanticSearchCapsAtTen(t *testing.T) {
	store := &fakeEmbeddingStore{}
	for i := 0; i < 25; i++ {
		store.items = append(store.items, model.NoteEmbedding{
			NoteID: fmt.Sprintf("note-%d", i),
			UserID: "user-1",
			Vector: embedding.FromText(fmt.Sprintf("note body %d", i)),
		})
	}
	svc := newTestAIService(&fakeProvider{}, store)

	ids, err := svc.SemanticSearch(context.Background(), "user-1", "anything")
	require.NoError(t, err)
	require.Len(t, ids, 10)
}

func TestSemanticSearchEmptyStore(t *testing.T) {
	svc := newTestAIService(&fakeProvider{}, &fakeEmbeddingStore{})

	ids, err := svc.SemanticSearch(context.Background(), "user-1", "query")
	require.NoError(t, err)
	require.Empty(t, ids)
}
