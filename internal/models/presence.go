package models

// PresenceStats is the advisory read surface: approximate, never a source of
// truth for any business decision.
type PresenceStats struct {
	CurrentOnline int `json:"current_online"`
	TodayUnique   int `json:"today_unique"`
	TodayPeak     int `json:"today_peak"`
}
