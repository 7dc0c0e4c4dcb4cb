package model

// NoteEmbedding is the stored pseudo-embedding for a note, at most one per
// note, replaced whenever the note content changes.
type NoteEmbedding struct {
	ID     string
	NoteID string
	UserID string
	Vector []float32
	Ctime  int64
}
