package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/zmb3/spotify/v2"
)

var playlistIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

var spotifyHosts = map[string]bool{
	"open.spotify.com": true,
	"play.spotify.com": true,
}

// ParsePlaylistRef extracts the playlist ID from ref.
//
// Playlists can be targeted in the following forms:
//   - ID: 37i9dQZF1DXcBWIGoYBM5M
//   - URI: spotify:playlist:37i9dQZF1DXcBWIGoYBM5M (or spotify:user:<name>:playlist:<id>)
//   - URL: https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abcdef
//   - URL: https://open.spotify.com/intl-de/playlist/<id>, https://open.spotify.com/user/<name>/playlist/<id>
func ParsePlaylistRef(ref string) (spotify.ID, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", shared.ErrInvalidPlaylistReference)
	}

	var id string
	switch {
	case strings.HasPrefix(ref, "spotify:"):
		parts := strings.Split(ref, ":")
		if len(parts) < 3 || parts[len(parts)-2] != "playlist" {
			return "", fmt.Errorf("%w: %q is not a playlist URI", shared.ErrInvalidPlaylistReference, ref)
		}
		id = parts[len(parts)-1]
	case strings.Contains(ref, "/"):
		raw := ref
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil || !spotifyHosts[strings.ToLower(u.Hostname())] {
			return "", fmt.Errorf("%w: %q is not a Spotify link", shared.ErrInvalidPlaylistReference, ref)
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) < 2 || segments[len(segments)-2] != "playlist" {
			return "", fmt.Errorf("%w: %q does not link to a playlist", shared.ErrInvalidPlaylistReference, ref)
		}
		id = segments[len(segments)-1]
	default:
		id = ref
	}

	if !playlistIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: malformed playlist ID %q", shared.ErrInvalidPlaylistReference, id)
	}

	return spotify.ID(id), nil
}

// PlaylistURL returns the public web link of a playlist.
func PlaylistURL(id spotify.ID) string {
	return "https://open.spotify.com/playlist/" + string(id)
}
