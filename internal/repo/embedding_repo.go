package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/notegenius/notegenius/internal/model"
)

type EmbeddingRepo struct {
	db *sql.DB
}

func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

// Upsert replaces the note's vector in place, keeping at most one embedding
// per note without a delete-then-insert window.
func (r *EmbeddingRepo) Upsert(ctx context.Context, emb *model.NoteEmbedding) error {
	const query = `INSERT INTO note_embeddings (id, note_id, user_id, embedding, ctime) ` +
		`VALUES ($1, $2, $3, $4, $5) ` +
		`ON CONFLICT (note_id) DO UPDATE SET embedding = EXCLUDED.embedding, ctime = EXCLUDED.ctime`
	_, err := r.db.ExecContext(ctx, query, emb.ID, emb.NoteID, emb.UserID, pgvector.NewVector(emb.Vector), emb.Ctime)
	return err
}

func (r *EmbeddingRepo) ListByUser(ctx context.Context, userID string) ([]model.NoteEmbedding, error) {
	const query = `SELECT id, note_id, user_id, embedding, ctime FROM note_embeddings WHERE user_id = $1 ORDER BY ctime, note_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var results []model.NoteEmbedding
	for rows.Next() {
		var item model.NoteEmbedding
		var vec pgvector.Vector
		if err := rows.Scan(&item.ID, &item.NoteID, &item.UserID, &vec, &item.Ctime); err != nil {
			return nil, err
		}
		item.Vector = vec.Slice()
		results = append(results, item)
	}
	return results, rows.Err()
}

func (r *EmbeddingRepo) DeleteByNote(ctx context.Context, noteID string) error {
	const query = `DELETE FROM note_embeddings WHERE note_id = $1`
	_, err := r.db.ExecContext(ctx, query, noteID)
	return err
}
