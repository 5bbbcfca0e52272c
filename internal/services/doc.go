// Package services defines the [Service] interface for fetching playlist snapshots and implements it for Spotify.
//
// # Service Interface
//
// The analysis engine only needs one operation from a provider: turn a user supplied playlist reference into a
// [models.Snapshot]. Tests and the engine depend on the interface, not on [SpotifyService].
//
// # Spotify Implementation
//
// [SpotifyService] wraps the zmb3/spotify client and authenticates with the client-credentials grant, so it can
// only read public playlists. Tokens are fetched and refreshed by [clientcredentials.Config].
//
// A snapshot is built in three steps:
//  1. playlist metadata (name, owner, link)
//  2. every playlist item, 100 per page, following the next links
//  3. the primary artist of every track, deduplicated and looked up 50 IDs at a time
//
// Artist batches are paced by a token-bucket limiter. Rate-limited responses (429) are retried by the client
// after the Retry-After delay when retries are enabled.
//
// # Playlist References
//
// [ParsePlaylistRef] accepts a bare 22 character ID, a spotify:playlist: URI, or an open.spotify.com link
// (with or without query string, user or locale segments).
//
// # Error Handling
//
// Errors use the sentinels from the shared package:
//   - [shared.ErrInvalidPlaylistReference] : the reference could not be parsed, or Spotify rejected the ID
//   - [shared.ErrPlaylistNotFound] : the playlist does not exist or is private
//   - [shared.ErrUpstreamUnavailable] : network, token, rate limit or server failures
//   - [shared.ErrMissingCredentials] : no client ID or secret
//
// Items that are not tracks (podcast episodes, removed tracks) are skipped. Local files are kept without artist
// metadata.
package services
