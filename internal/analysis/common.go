package analysis

import "github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"

// MinCommonRows is the number of joined rows needed before common songs are reported.
// A single match is reported as "no common songs".
const MinCommonRows = 2

// CommonRow pairs a track of the first playlist with a same-named track of the second.
type CommonRow struct {
	Name string       `json:"track_name"`
	A    models.Track `json:"a"`
	B    models.Track `json:"b"`
}

// CommonTracks is the result of joining two snapshots on track name.
type CommonTracks struct {
	Rows []CommonRow `json:"rows"`
}

// Found reports whether there are enough rows to present as common songs.
func (c CommonTracks) Found() bool {
	return len(c.Rows) >= MinCommonRows
}

// Common inner-joins a and b on exact, case-sensitive track name.
//
// Duplicate names multiply: every matching pair yields a row, ordered by a's position, then b's.
func Common(a, b *models.Snapshot) CommonTracks {
	if a.IsEmpty() || b.IsEmpty() {
		return CommonTracks{}
	}

	byName := make(map[string][]int)
	for i, t := range b.Tracks {
		byName[t.Name] = append(byName[t.Name], i)
	}

	var rows []CommonRow
	for _, ta := range a.Tracks {
		for _, j := range byName[ta.Name] {
			rows = append(rows, CommonRow{Name: ta.Name, A: ta, B: b.Tracks[j]})
		}
	}

	return CommonTracks{Rows: rows}
}
