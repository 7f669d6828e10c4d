package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/yanqian/playlist-recommender/internal/domain/recommendation"
)

const (
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	maxSearchLimit  = 50
)

// Config holds the app credentials used for catalog search.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	// BaseURL overrides the Web API root; mainly for tests.
	BaseURL string
	Market  string
	Timeout time.Duration
}

// Client searches public playlists with the client credentials flow.
type Client struct {
	api    *spotify.Client
	market string
}

// NewClient builds a catalog client. Tokens are fetched lazily and refreshed
// by the oauth2 transport.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("spotify client id and secret are required")
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})
	httpClient := creds.Client(ctx)
	httpClient.Timeout = timeout

	var opts []spotify.ClientOption
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, spotify.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	return &Client{
		api:    spotify.New(httpClient, opts...),
		market: strings.ToUpper(strings.TrimSpace(cfg.Market)),
	}, nil
}

// SearchPlaylists implements recommendation.Catalog.
func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]recommendation.Playlist, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypePlaylist, opts...)
	if err != nil {
		return nil, fmt.Errorf("spotify search %q: %w", query, err)
	}
	if result == nil || result.Playlists == nil {
		return []recommendation.Playlist{}, nil
	}
	return toPlaylists(result.Playlists.Playlists), nil
}

// toPlaylists drops the null entries the search API returns for removed playlists.
func toPlaylists(items []spotify.SimplePlaylist) []recommendation.Playlist {
	out := make([]recommendation.Playlist, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		playlist := recommendation.Playlist{
			ID:         string(item.ID),
			Name:       item.Name,
			Owner:      item.Owner.DisplayName,
			URI:        string(item.URI),
			URL:        item.ExternalURLs["spotify"],
			TrackCount: int(item.Tracks.Total),
		}
		if len(item.Images) > 0 {
			playlist.ImageURL = item.Images[0].URL
		}
		out = append(out, playlist)
	}
	return out
}

var _ recommendation.Catalog = (*Client)(nil)
