package analysis

import (
	"fmt"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
)

// Summary holds the descriptive statistics of one playlist.
type Summary struct {
	Empty             bool          `json:"empty"`
	Oldest            *models.Track `json:"oldest,omitempty"`
	Newest            *models.Track `json:"newest,omitempty"`
	MostPopularSong   *models.Track `json:"most_popular_song,omitempty"`
	MostPopularArtist string        `json:"most_popular_artist"`
	MostAddedArtist   string        `json:"most_added_artist"`
	MostAddedCount    int           `json:"most_added_count"`
}

// SummaryRow is one labelled line of a rendered summary table.
type SummaryRow struct {
	Label string
	Value string
}

// Summarize computes the statistics of s. Ties resolve to the first track in playlist order,
// except the modal artist which resolves to the alphabetically first name.
//
// Tracks with an unknown add date are ignored for oldest and newest.
func Summarize(s *models.Snapshot) Summary {
	if s.IsEmpty() {
		return Summary{Empty: true}
	}

	var sum Summary
	counts := make(map[string]int)
	order := make([]string, 0)

	for i := range s.Tracks {
		t := &s.Tracks[i]

		if !t.AddedAt.IsZero() {
			if sum.Oldest == nil || t.AddedAt.Before(sum.Oldest.AddedAt.Time) {
				sum.Oldest = t
			}
			if sum.Newest == nil || t.AddedAt.After(sum.Newest.AddedAt.Time) {
				sum.Newest = t
			}
		}

		if sum.MostPopularSong == nil || t.Popularity > sum.MostPopularSong.Popularity {
			sum.MostPopularSong = t
		}

		if _, ok := counts[t.ArtistName]; !ok {
			order = append(order, t.ArtistName)
		}
		counts[t.ArtistName]++
	}

	for _, name := range order {
		n := counts[name]
		if n > sum.MostAddedCount {
			sum.MostAddedArtist, sum.MostAddedCount = name, n
		}
	}

	for _, name := range order {
		if counts[name] != sum.MostAddedCount {
			continue
		}
		if sum.MostPopularArtist == "" || name < sum.MostPopularArtist {
			sum.MostPopularArtist = name
		}
	}

	sum.Oldest = copyTrack(sum.Oldest)
	sum.Newest = copyTrack(sum.Newest)
	sum.MostPopularSong = copyTrack(sum.MostPopularSong)

	return sum
}

// copyTrack detaches the summary from the snapshot's backing array.
func copyTrack(t *models.Track) *models.Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Rows renders the summary as the five labelled lines shown in the stats tables.
func (s Summary) Rows() []SummaryRow {
	name := func(t *models.Track) string {
		if t == nil {
			return "-"
		}
		return t.Name
	}

	mostAdded := "-"
	if s.MostAddedCount > 0 {
		mostAdded = fmt.Sprintf("%s (%d)", s.MostAddedArtist, s.MostAddedCount)
	}

	mostPopularArtist := s.MostPopularArtist
	if s.Empty {
		mostPopularArtist = "-"
	}

	return []SummaryRow{
		{Label: "oldest song", Value: name(s.Oldest)},
		{Label: "latest song", Value: name(s.Newest)},
		{Label: "most popular song", Value: name(s.MostPopularSong)},
		{Label: "most popular artist", Value: mostPopularArtist},
		{Label: "most added artist", Value: mostAdded},
	}
}
