package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used for added_at values.
const DateLayout = "2006-01-02"

// Date is a calendar date in UTC. The zero Date means "unknown".
type Date struct {
	time.Time
}

// NewDate returns the date y-m-d.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts either a bare date or an RFC 3339 timestamp and keeps only the date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if day, _, found := strings.Cut(s, "T"); found {
		s = day
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// String formats d as YYYY-MM-DD, or "" when unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Track is one record of a playlist snapshot: the track, its primary artist and that artist's genres.
type Track struct {
	URI              string `json:"uri"`
	Name             string `json:"track_name"`
	Popularity       int    `json:"track_popularity"`
	AddedAt          Date   `json:"added_at"`
	ArtistID         string `json:"artist_id"`
	ArtistName       string `json:"artist_name"`
	ArtistPopularity int    `json:"artist_popularity"`
	Genre            string `json:"genre"` // space-joined genre tags
	ArtistURL        string `json:"artist_url"`
}

// Genres splits the space-joined genre column back into tags.
func (t Track) Genres() []string {
	return strings.Fields(t.Genre)
}

// Snapshot is the ordered set of track records fetched for one playlist at one point in time.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	URL       string    `json:"url"`
	FetchedAt time.Time `json:"fetched_at"`
	Tracks    []Track   `json:"tracks"`
}

// Len returns the number of track records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tracks)
}

// IsEmpty reports whether the snapshot has no resolvable tracks.
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0
}

// Label returns the playlist name, falling back to its ID.
func (s *Snapshot) Label() string {
	if s == nil {
		return ""
	}
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
