package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is shown on the public landing page while active. Lower
// priority sorts first.
type Announcement struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsActive  bool      `json:"is_active"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// ShortMessage truncates the message for list views.
func (a *Announcement) ShortMessage(length int) string {
	if len(a.Message) <= length {
		return a.Message
	}
	return a.Message[:length-3] + "..."
}

type AnnouncementInput struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	IsActive *bool  `json:"is_active"`
	Priority *int   `json:"priority"`
}

type Event struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Start     time.Time  `json:"start"`
	End       *time.Time `json:"end"`
	Location  string     `json:"location"`
	IsPublic  bool       `json:"is_public"`
	CreatedAt time.Time  `json:"created_at"`
}

// UnreadCounts is the per-audience view of how many active announcements are
// considered news: teachers see everything, students the last week, parents
// the last month.
type UnreadCounts struct {
	Teacher int `json:"teacher"`
	Student int `json:"student"`
	Parents int `json:"parents"`
}
