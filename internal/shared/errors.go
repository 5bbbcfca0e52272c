package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Playlist and upstream errors
	ErrInvalidPlaylistReference = fmt.Errorf("invalid playlist reference")
	ErrEmptyPlaylist            = fmt.Errorf("playlist has no resolvable tracks")
	ErrUpstreamUnavailable      = fmt.Errorf("upstream unavailable")
	ErrPlaylistNotFound         = fmt.Errorf("playlist not found")
	ErrServiceUnavailable       = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Storage errors
	ErrNotFound        = fmt.Errorf("record not found")
	ErrHistoryDisabled = fmt.Errorf("history is disabled")
)

// UserMessage turns an error from any layer into a sentence suitable for display in the browser, TUI or terminal.
//
// Unknown errors fall through to their own text so nothing is hidden from the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPlaylistReference):
		return "That doesn't look like a Spotify playlist link. Paste a link like https://open.spotify.com/playlist/<id> or a spotify:playlist:<id> URI."
	case errors.Is(err, ErrPlaylistNotFound):
		return "Spotify couldn't find that playlist. Check that it exists and is public."
	case errors.Is(err, ErrEmptyPlaylist):
		return "One of the playlists has no tracks that could be analysed."
	case errors.Is(err, ErrMissingCredentials):
		return "Spotify credentials are not configured. Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or fill in [credentials.spotify] in config.toml."
	case errors.Is(err, ErrUpstreamUnavailable):
		return "Spotify is unavailable right now (network, authentication or rate limit problem). Try again in a moment."
	case errors.Is(err, ErrHistoryDisabled):
		return "Report history is disabled in the configuration."
	case errors.Is(err, ErrNotFound):
		return "The requested report does not exist."
	case errors.Is(err, ErrMissingArgument), errors.Is(err, ErrInvalidArgument):
		return err.Error()
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}
