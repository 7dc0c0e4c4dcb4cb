package service

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"time"

	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/notegenius/notegenius/internal/model"
	"github.com/notegenius/notegenius/internal/pkg/timeutil"
)

// ReminderNoteStore is the slice of the note repo the scanner needs.
type ReminderNoteStore interface {
	ListReminderCandidates(ctx context.Context, limit int) ([]model.Note, error)
	ClaimReminder(ctx context.Context, noteID string) (bool, error)
	ResetReminder(ctx context.Context, noteID string) error
}

type ReminderUserStore interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

type ReminderService struct {
	notes     ReminderNoteStore
	users     ReminderUserStore
	sender    EmailSender
	lookahead time.Duration
	batchSize int
}

func NewReminderService(notes ReminderNoteStore, users ReminderUserStore, sender EmailSender, lookahead time.Duration, batchSize int) *ReminderService {
	return &ReminderService{
		notes:     notes,
		users:     users,
		sender:    sender,
		lookahead: lookahead,
		batchSize: batchSize,
	}
}

// Scan selects pending reminders due within the lookahead window and emails
// their owners. Each note is claimed with a conditional flag flip before
// sending; a failed delivery releases the claim so the note is retried on the
// next tick. One bad note never aborts the rest of the batch.
func (s *ReminderService) Scan(ctx context.Context) error {
	now := time.Now().UTC()
	boundary := now.Add(s.lookahead)

	notes, err := s.notes.ListReminderCandidates(ctx, s.batchSize)
	if err != nil {
		return err
	}
	for _, note := range notes {
		s.process(ctx, &note, now, boundary)
	}
	return nil
}

func (s *ReminderService) process(ctx context.Context, note *model.Note, now, boundary time.Time) {
	logger := logutil.GetLogger(ctx).With(zap.String("note_id", note.ID), zap.String("user_id", note.UserID))

	due, err := timeutil.ParseUTC(note.ScheduledReminder)
	if err != nil {
		logger.Error("bad reminder timestamp", zap.String("value", note.ScheduledReminder), zap.Error(err))
		return
	}
	if due.Before(now) || due.After(boundary) {
		return
	}

	claimed, err := s.notes.ClaimReminder(ctx, note.ID)
	if err != nil {
		logger.Error("claim reminder failed", zap.Error(err))
		return
	}
	if !claimed {
		// Another tick already took this one.
		return
	}

	user, err := s.users.GetByID(ctx, note.UserID)
	if err != nil {
		logger.Error("resolve reminder owner failed", zap.Error(err))
		s.release(ctx, note.ID, logger)
		return
	}

	body, err := renderReminderEmail(note)
	if err != nil {
		logger.Error("render reminder email failed", zap.Error(err))
		s.release(ctx, note.ID, logger)
		return
	}
	if err := s.sender.Send(user.Email, "Reminder: "+note.Title, body); err != nil {
		logger.Error("send reminder email failed", zap.Error(err))
		s.release(ctx, note.ID, logger)
		return
	}
	logger.Info("reminder email sent", zap.String("email", user.Email))
}

func (s *ReminderService) release(ctx context.Context, noteID string, logger *zap.Logger) {
	if err := s.notes.ResetReminder(ctx, noteID); err != nil {
		logger.Error("release reminder claim failed", zap.Error(err))
	}
}

// renderReminderEmail builds the HTML body, converting the markdown note
// content with goldmark.
func renderReminderEmail(note *model.Note) (string, error) {
	var content bytes.Buffer
	if err := goldmark.Convert([]byte(note.Content), &content); err != nil {
		return "", err
	}
	return fmt.Sprintf(`<h2>Note Reminder</h2>
<p>This is a reminder for your note:</p>
<p><strong>%s</strong></p>
<p>Scheduled for: %s</p>
<hr>
%s`, html.EscapeString(note.Title), html.EscapeString(note.ScheduledReminder), content.String()), nil
}
