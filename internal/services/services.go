// package services defines interface Service for fetching playlists from HTTP APIs
package services

import (
	"context"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
)

// Service defines the interface for music service providers that can produce playlist snapshots.
type Service interface {
	// FetchSnapshot resolves ref and returns every track record of the playlist in playlist order.
	//
	// A playlist without tracks is not an error: the snapshot is returned with no tracks.
	FetchSnapshot(ctx context.Context, ref string) (*models.Snapshot, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
