package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/dbutil"
	appErr "github.com/notegenius/notegenius/internal/pkg/errors"
)

var noteColumns = []string{
	"id", "user_id", "folder", "title", "content", "summary",
	"tags", "scheduled_reminder", "reminder_sent", "ctime", "mtime",
}

const listNotesLimit = 1000

type NoteRepo struct {
	db *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) Create(ctx context.Context, note *model.Note) error {
	tags, err := json.Marshal(note.Tags)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":                 note.ID,
		"user_id":            note.UserID,
		"folder":             note.Folder,
		"title":              note.Title,
		"content":            note.Content,
		"summary":            nullString(note.Summary),
		"tags":               tags,
		"scheduled_reminder": nullString(note.ScheduledReminder),
		"reminder_sent":      note.ReminderSent,
		"ctime":              note.Ctime,
		"mtime":              note.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("notes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	where := map[string]interface{}{"id": noteID, "user_id": userID}
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanNote(rows)
}

// List returns the owner's notes newest-first, optionally restricted to one
// folder. Free-text search is applied by the service on top of this.
func (r *NoteRepo) List(ctx context.Context, userID, folder string) ([]model.Note, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "mtime desc",
		"_limit":   []uint{0, listNotesLimit},
	}
	if folder != "" {
		where["folder"] = folder
	}
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryNotes(ctx, sqlStr, args...)
}

func (r *NoteRepo) ListByIDs(ctx context.Context, userID string, noteIDs []string) ([]model.Note, error) {
	if len(noteIDs) == 0 {
		return nil, nil
	}
	where := map[string]interface{}{
		"user_id": userID,
		"id in":   noteIDs,
	}
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryNotes(ctx, sqlStr, args...)
}

// Update applies the given column values to the owner's note. The statement
// is a single conditional update keyed by (id, user_id) so concurrent edits
// and reminder flips never interleave partially.
func (r *NoteRepo) Update(ctx context.Context, userID, noteID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	where := map[string]interface{}{"id": noteID, "user_id": userID}
	sqlStr, args, err := builder.BuildUpdate("notes", where, fields)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, userID, noteID string) error {
	where := map[string]interface{}{"id": noteID, "user_id": userID}
	sqlStr, args, err := builder.BuildDelete("notes", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) CountByFolder(ctx context.Context, userID string) (map[string]int, error) {
	const query = `SELECT folder, COUNT(*) FROM notes WHERE user_id = $1 GROUP BY folder`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	counts := make(map[string]int)
	for rows.Next() {
		var folder string
		var count int
		if err := rows.Scan(&folder, &count); err != nil {
			return nil, err
		}
		counts[folder] = count
	}
	return counts, rows.Err()
}

// ListReminderCandidates returns notes with a pending reminder, bounded to
// keep one scan tick to a single short query batch. Ordering by the reminder
// timestamp keeps the batch deterministic, so far-future reminders cannot
// crowd out due ones. Window filtering happens in the scanner since
// scheduled_reminder is a client-supplied string.
func (r *NoteRepo) ListReminderCandidates(ctx context.Context, limit int) ([]model.Note, error) {
	const query = `SELECT id, user_id, folder, title, content, summary, tags, scheduled_reminder, reminder_sent, ctime, mtime ` +
		`FROM notes WHERE scheduled_reminder IS NOT NULL AND reminder_sent = FALSE ORDER BY scheduled_reminder LIMIT $1`
	return r.queryNotes(ctx, query, limit)
}

// ClaimReminder flips reminder_sent to true only when it is still false,
// reporting whether this caller won the claim. This keeps the notify flip
// single-writer across overlapping scans.
func (r *NoteRepo) ClaimReminder(ctx context.Context, noteID string) (bool, error) {
	const query = `UPDATE notes SET reminder_sent = TRUE WHERE id = $1 AND reminder_sent = FALSE`
	result, err := r.db.ExecContext(ctx, query, noteID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ResetReminder releases a claim after a failed delivery so the note stays
// eligible on the next tick.
func (r *NoteRepo) ResetReminder(ctx context.Context, noteID string) error {
	const query = `UPDATE notes SET reminder_sent = FALSE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, noteID)
	return err
}

func (r *NoteRepo) queryNotes(ctx context.Context, query string, args ...interface{}) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var notes []model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func scanNote(rows *sql.Rows) (*model.Note, error) {
	var note model.Note
	var summary, reminder sql.NullString
	var tags []byte
	if err := rows.Scan(&note.ID, &note.UserID, &note.Folder, &note.Title, &note.Content,
		&summary, &tags, &reminder, &note.ReminderSent, &note.Ctime, &note.Mtime); err != nil {
		return nil, err
	}
	note.Summary = summary.String
	note.ScheduledReminder = reminder.String
	note.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &note.Tags); err != nil {
			return nil, err
		}
	}
	return &note, nil
}
