package models

// Word is a static catalog entry. Entries are immutable; the session only
// records which IDs have already been served.
type Word struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}
