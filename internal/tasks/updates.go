package tasks

import (
	"fmt"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
)

// ProgressUpdate represents a progress event during an analysis.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ValidateInput Phase = iota
	FetchPlaylists
	Compare
	SaveReport
)

func (p Phase) String() string {
	switch p {
	case ValidateInput:
		return "validate_input"
	case FetchPlaylists:
		return "fetch_playlists"
	case Compare:
		return "compare"
	case SaveReport:
		return "save_report"
	default:
		return ""
	}
}

func validateUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateInput,
		Step:    1,
		Total:   1,
		Message: "Checking playlist links...",
	}
}

func fetchingPlaylistUpdate(step, total int, ref string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching playlist %s...", step, total, ref),
	}
}

func fetchedPlaylistUpdate(step, total int, s *models.Snapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Found playlist: %s (%d tracks)", step, total, s.Label(), s.Len()),
		Data:    s,
	}
}

func analysingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: "Comparing playlists...",
	}
}

func savingReportUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveReport,
		Step:    1,
		Total:   1,
		Message: "Saving report to history...",
	}
}

func savedReportUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveReport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Report saved (ID: %s)", id),
		Data:    id,
	}
}
