// Spotify Web API implementation of [Service]
//
// Endpoints used, see https://developer.spotify.com/documentation/web-api/reference/
//   - GET /playlists/{id}
//   - GET /playlists/{id}/tracks
//   - GET /artists?ids=
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/models"
	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is the number of artist batch requests allowed per second.
	DefaultRateLimit = 5.0

	playlistPageSize = 100
	artistBatchSize  = 50
	playlistFields   = "id,name,owner(id,display_name),external_urls"
)

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*spotifyOptions)

type spotifyOptions struct {
	httpClient *http.Client
	baseURL    string
	tokenURL   string
	rateLimit  float64
	retry      bool
	market     string
	logger     *log.Logger
}

// WithHTTPClient uses an already authenticated client and skips the client-credentials exchange.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(o *spotifyOptions) { o.httpClient = c }
}

// WithBaseURL points the client at another API root. The URL must end with a slash.
func WithBaseURL(u string) SpotifyOption {
	return func(o *spotifyOptions) { o.baseURL = u }
}

// WithTokenURL overrides the accounts service token endpoint.
func WithTokenURL(u string) SpotifyOption {
	return func(o *spotifyOptions) { o.tokenURL = u }
}

// WithRateLimit sets the artist batch rate in requests per second. Zero or less disables pacing.
func WithRateLimit(rps float64) SpotifyOption {
	return func(o *spotifyOptions) { o.rateLimit = rps }
}

// WithRetry toggles retrying rate-limited responses.
func WithRetry(retry bool) SpotifyOption {
	return func(o *spotifyOptions) { o.retry = retry }
}

// WithMarket requests track relinking for an ISO 3166-1 alpha-2 country code.
func WithMarket(market string) SpotifyOption {
	return func(o *spotifyOptions) { o.market = strings.ToUpper(strings.TrimSpace(market)) }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) SpotifyOption {
	return func(o *spotifyOptions) { o.logger = l }
}

// SettingsOptions converts the [spotify] config section into service options.
func SettingsOptions(s shared.SpotifySettings) []SpotifyOption {
	return []SpotifyOption{
		WithRateLimit(s.RateLimit),
		WithRetry(s.Retry),
		WithMarket(s.Market),
	}
}

// SpotifyService implements the Service interface for the Spotify Web API.
type SpotifyService struct {
	client  *spotify.Client
	limiter *rate.Limiter
	market  string
	logger  *log.Logger
}

// NewSpotifyService creates a Spotify service authenticated with the client-credentials grant.
func NewSpotifyService(creds shared.SpotifyConfig, opts ...SpotifyOption) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	o := spotifyOptions{
		tokenURL:  spotifyauth.TokenURL,
		rateLimit: DefaultRateLimit,
		retry:     true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		cc := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     o.tokenURL,
		}
		httpClient = cc.Client(context.Background())
	}

	clientOpts := []spotify.ClientOption{spotify.WithRetry(o.retry)}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(o.baseURL))
	}

	limit := rate.Inf
	if o.rateLimit > 0 {
		limit = rate.Limit(o.rateLimit)
	}

	return &SpotifyService{
		client:  spotify.New(httpClient, clientOpts...),
		limiter: rate.NewLimiter(limit, 1),
		market:  o.market,
		logger:  o.logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// FetchSnapshot resolves ref and builds the playlist snapshot with one record per track.
func (s *SpotifyService) FetchSnapshot(ctx context.Context, ref string) (*models.Snapshot, error) {
	id, err := ParsePlaylistRef(ref)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	playlist, err := s.client.GetPlaylist(ctx, id, spotify.Fields(playlistFields))
	if err != nil {
		return nil, mapError(err, id)
	}

	tracks, err := s.playlistTracks(ctx, id)
	if err != nil {
		return nil, mapError(err, id)
	}

	artists, err := s.artists(ctx, uniqueArtistIDs(tracks))
	if err != nil {
		return nil, mapError(err, id)
	}
	hydrate(tracks, artists)

	url := playlist.ExternalURLs["spotify"]
	if url == "" {
		url = PlaylistURL(id)
	}

	s.logger.Debug("fetched playlist", "id", id, "tracks", len(tracks), "artists", len(artists), "took", time.Since(start))

	return &models.Snapshot{
		ID:        string(id),
		Name:      playlist.Name,
		Owner:     ownerName(playlist.Owner),
		URL:       url,
		FetchedAt: time.Now().UTC(),
		Tracks:    tracks,
	}, nil
}

// playlistTracks walks every page of playlist items.
//
// Records are built before the next page is requested because the client decodes each page into the same value.
func (s *SpotifyService) playlistTracks(ctx context.Context, id spotify.ID) ([]models.Track, error) {
	opts := []spotify.RequestOption{spotify.Limit(playlistPageSize)}
	if s.market != "" {
		opts = append(opts, spotify.Market(s.market))
	}

	page, err := s.client.GetPlaylistItems(ctx, id, opts...)
	if err != nil {
		return nil, err
	}

	var tracks []models.Track
	for {
		tracks = append(tracks, trackRecords(page.Items)...)

		if err := s.client.NextPage(ctx, page); errors.Is(err, spotify.ErrNoMorePages) {
			break
		} else if err != nil {
			return nil, err
		}
	}

	return tracks, nil
}

// artistInfo is the part of a full artist object copied into track records.
type artistInfo struct {
	Popularity int
	Genres     []string
	URL        string
}

// artists looks up ids in batches of 50, waiting on the limiter before each batch.
func (s *SpotifyService) artists(ctx context.Context, ids []spotify.ID) (map[spotify.ID]artistInfo, error) {
	out := make(map[spotify.ID]artistInfo, len(ids))

	for start := 0; start < len(ids); start += artistBatchSize {
		end := min(start+artistBatchSize, len(ids))

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		batch, err := s.client.GetArtists(ctx, ids[start:end]...)
		if err != nil {
			return nil, err
		}

		for _, a := range batch {
			if a == nil {
				continue
			}
			out[a.ID] = artistInfo{
				Popularity: int(a.Popularity),
				Genres:     a.Genres,
				URL:        a.ExternalURLs["spotify"],
			}
		}

		s.logger.Debug("resolved artist batch", "from", start, "to", end)
	}

	return out, nil
}

// trackRecords converts playlist items into records. Episodes and removed tracks are skipped.
func trackRecords(items []spotify.PlaylistItem) []models.Track {
	records := make([]models.Track, 0, len(items))

	for _, item := range items {
		t := item.Track.Track
		if t == nil {
			continue
		}

		added, err := models.ParseDate(item.AddedAt)
		if err != nil {
			added = models.Date{}
		}

		record := models.Track{
			URI:        string(t.URI),
			Name:       t.Name,
			Popularity: int(t.Popularity),
			AddedAt:    added,
		}

		if len(t.Artists) > 0 {
			primary := t.Artists[0]
			record.ArtistID = string(primary.ID)
			record.ArtistName = primary.Name
			record.ArtistURL = primary.ExternalURLs["spotify"]
		}

		records = append(records, record)
	}

	return records
}

// uniqueArtistIDs returns the primary artist IDs of tracks in first-seen order.
// Local files carry no artist ID and are left out.
func uniqueArtistIDs(tracks []models.Track) []spotify.ID {
	seen := make(map[string]bool)
	var ids []spotify.ID
	for _, t := range tracks {
		if t.ArtistID == "" || seen[t.ArtistID] {
			continue
		}
		seen[t.ArtistID] = true
		ids = append(ids, spotify.ID(t.ArtistID))
	}
	return ids
}

// hydrate copies artist popularity, genres and link into the track records.
func hydrate(tracks []models.Track, artists map[spotify.ID]artistInfo) {
	for i := range tracks {
		a, ok := artists[spotify.ID(tracks[i].ArtistID)]
		if !ok {
			continue
		}
		tracks[i].ArtistPopularity = a.Popularity
		tracks[i].Genre = strings.Join(a.Genres, " ")
		if tracks[i].ArtistURL == "" {
			tracks[i].ArtistURL = a.URL
		}
	}
}

func ownerName(u spotify.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}

// statusOf returns the HTTP status carried by a Spotify API error, or 0.
func statusOf(err error) int {
	var v spotify.Error
	if errors.As(err, &v) {
		return v.Status
	}
	var p *spotify.Error
	if errors.As(err, &p) && p != nil {
		return p.Status
	}
	return 0
}

// mapError translates client errors into the shared error taxonomy.
func mapError(err error, id spotify.ID) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	switch status := statusOf(err); status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: spotify rejected %s: %v", shared.ErrInvalidPlaylistReference, id, err)
	default:
		return fmt.Errorf("%w: %w", shared.ErrUpstreamUnavailable, err)
	}
}
