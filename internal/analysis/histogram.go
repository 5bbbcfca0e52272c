package analysis

import (
	"sort"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
)

// DateCount is one bar group of the histogram: tracks added on Date to each playlist.
type DateCount struct {
	Date models.Date `json:"date"`
	A    int         `json:"a"`
	B    int         `json:"b"`
}

// Histogram lists per-date counts in ascending date order.
type Histogram []DateCount

// BuildHistogram counts tracks per added date for a and b over the union of their dates.
// A date missing from one playlist counts as zero there. Unknown dates are skipped.
func BuildHistogram(a, b *models.Snapshot) Histogram {
	buckets := make(map[string]*DateCount)

	add := func(s *models.Snapshot, inc func(*DateCount)) {
		if s == nil {
			return
		}
		for _, t := range s.Tracks {
			if t.AddedAt.IsZero() {
				continue
			}
			key := t.AddedAt.String()
			dc, ok := buckets[key]
			if !ok {
				dc = &DateCount{Date: t.AddedAt}
				buckets[key] = dc
			}
			inc(dc)
		}
	}

	add(a, func(dc *DateCount) { dc.A++ })
	add(b, func(dc *DateCount) { dc.B++ })

	h := make(Histogram, 0, len(buckets))
	for _, dc := range buckets {
		h = append(h, *dc)
	}
	sort.Slice(h, func(i, j int) bool {
		return h[i].Date.Before(h[j].Date.Time)
	})

	return h
}

// Max returns the largest single count, used to scale chart bars.
func (h Histogram) Max() int {
	m := 0
	for _, dc := range h {
		m = max(m, dc.A, dc.B)
	}
	return m
}

// Count returns the counts recorded for d.
func (h Histogram) Count(d models.Date) (a, b int) {
	for _, dc := range h {
		if dc.Date.Equal(d.Time) {
			return dc.A, dc.B
		}
	}
	return 0, 0
}
