package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/ai"
	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/embedding"
	appErr "github.com/notegenius/notegenius/internal/pkg/errors"
)

// SummaryUnavailable is returned in place of a summary whenever the upstream
// completion call fails; note writes must still succeed.
const SummaryUnavailable = "Summary unavailable"

const searchTopK = 10

const summarizeSystemPrompt = `You are an AI that summarizes notes clearly and professionally.
Follow EXACTLY these rules:
- Summarize only the note content (do NOT talk to the user).
- No questions, no conversation tone.
- Capture the purpose, topic, key points, and important dates/times.
- If the note includes a reminder or event, mention when and what for.
- Keep the summary short, clear, and factual (max 3-4 sentences).
- Output ONLY the summary text, no extra explanation.`

const askSystemPrompt = "You are a helpful AI assistant for a notes application. " +
	"Answer clearly and concisely based on the question and optional context."

// EmbeddingStore is the slice of the embedding repo the AI service needs.
type EmbeddingStore interface {
	Upsert(ctx context.Context, emb *model.NoteEmbedding) error
	ListByUser(ctx context.Context, userID string) ([]model.NoteEmbedding, error)
}

type AIService struct {
	provider      ai.Provider
	model         string
	maxInputChars int
	timeout       time.Duration
	embeddings    EmbeddingStore
	cache         *expirable.LRU[string, string]
}

func NewAIService(provider ai.Provider, model string, maxInputChars, timeoutSeconds int, embeddings EmbeddingStore) *AIService {
	cache := expirable.NewLRU[string, string](10000, nil, 2*time.Hour)
	return &AIService{
		provider:      provider,
		model:         model,
		maxInputChars: maxInputChars,
		timeout:       time.Duration(timeoutSeconds) * time.Second,
		embeddings:    embeddings,
		cache:         cache,
	}
}

// Summarize never fails: any adapter error degrades to the sentinel string so
// the triggering note operation still succeeds.
func (s *AIService) Summarize(ctx context.Context, content string) string {
	text := strings.TrimSpace(content)
	if text == "" {
		return SummaryUnavailable
	}
	if s.maxInputChars > 0 && len(text) > s.maxInputChars {
		text = text[:s.maxInputChars]
	}
	cacheKey := s.cacheKey("summary", text)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached
	}
	result, err := s.chat(ctx, summarizeSystemPrompt, "Summarize this note:\n\n"+text)
	if err != nil {
		logutil.GetLogger(ctx).Error("summary generation failed", zap.Error(err))
		return SummaryUnavailable
	}
	s.cache.Add(cacheKey, result)
	return result
}

func (s *AIService) Ask(ctx context.Context, question, noteContext string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", appErr.ErrInvalid
	}
	prompt := question
	if noteContext != "" {
		prompt = question + "\n\nHere is some additional context from my notes:\n" + noteContext
	}
	if s.maxInputChars > 0 && len(prompt) > s.maxInputChars {
		return "", appErr.ErrInvalid
	}
	cacheKey := s.cacheKey("ask", prompt)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}
	result, err := s.chat(ctx, askSystemPrompt, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Error("ai request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", appErr.ErrAIUnavailable, err)
	}
	s.cache.Add(cacheKey, result)
	return result, nil
}

// SyncEmbedding replaces the note's stored pseudo-embedding after a content
// change. Upsert keeps the write self-contained and idempotent.
func (s *AIService) SyncEmbedding(ctx context.Context, userID, noteID, content string) error {
	return s.embeddings.Upsert(ctx, &model.NoteEmbedding{
		ID:     newID(),
		NoteID: noteID,
		UserID: userID,
		Vector: embedding.FromText(content),
		Ctime:  time.Now().Unix(),
	})
}

// SemanticSearch ranks the caller's stored vectors by cosine similarity to
// the query's pseudo-embedding and returns up to ten note ids, best first.
// Ties keep encounter order. An empty store yields an empty result.
func (s *AIService) SemanticSearch(ctx context.Context, userID, query string) ([]string, error) {
	queryVec := embedding.FromText(query)
	all, err := s.embeddings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	type match struct {
		noteID string
		score  float64
	}
	matches := make([]match, 0, len(all))
	for _, item := range all {
		matches = append(matches, match{noteID: item.NoteID, score: embedding.Cosine(queryVec, item.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	topK := searchTopK
	if topK > len(matches) {
		topK = len(matches)
	}
	result := make([]string, 0, topK)
	for i := 0; i < topK; i++ {
		logutil.GetLogger(ctx).Debug("search match",
			zap.String("note_id", matches[i].noteID),
			zap.Float64("score", matches[i].score),
		)
		result = append(result, matches[i].noteID)
	}
	return result, nil
}

func (s *AIService) chat(ctx context.Context, system, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	result, err := s.provider.Chat(ctx, s.model, system, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(result)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (s *AIService) cacheKey(feature, text string) string {
	hash := sha256.Sum256([]byte(text))
	return feature + ":" + hex.EncodeToString(hash[:])
}
