package model

type Note struct {
	ID      string   `json:"id"`
	UserID  string   `json:"user_id"`
	Folder  string   `json:"folder"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags"`
	// Raw client-supplied timestamp; parsed with a UTC default by the
	// reminder scanner.
	ScheduledReminder string `json:"scheduled_reminder,omitempty"`
	ReminderSent      bool   `json:"reminder_sent"`
	Ctime             int64  `json:"created_at"`
	Mtime             int64  `json:"updated_at"`
}
